package driven

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
)

// GraphFeed is the JSON feed collaborator. Each call fetches one page of up
// to 100 raw event entries with a fixed field set, positioned by an opaque
// "after" cursor (empty for the first page).
type GraphFeed interface {
	FetchPage(ctx context.Context, ts oauth2.TokenSource, after string) (*domain.FeedPage, error)
}

// ICalFeed is the iCalendar feed collaborator. Fetch returns the raw
// document bytes for the requested calendar. Implementations build the feed
// URI from uid/key/locale and must redact uid and key from any diagnostic
// output.
type ICalFeed interface {
	Fetch(ctx context.Context, uid, key, locale string, ctype domain.CalendarType) ([]byte, error)
}
