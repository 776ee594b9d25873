package services

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driven"
	"github.com/marciozomb13/FBEventSync/internal/logger"
	graphnorm "github.com/marciozomb13/FBEventSync/internal/normalisers/graph"
)

// historyWindow bounds how far back the walk pulls events. Anything older
// is not worth the bandwidth.
const historyWindow = 365 * 24 * time.Hour

// CursorWalker drives pagination over the JSON feed. It fetches pages via
// the opaque "after" cursor and applies each entry in feed order.
type CursorWalker struct {
	feed driven.GraphFeed
	now  func() time.Time
}

// NewCursorWalker creates a walker over the given feed.
func NewCursorWalker(feed driven.GraphFeed) *CursorWalker {
	return &CursorWalker{feed: feed, now: time.Now}
}

// Walk pulls pages until the server returns no next cursor, the oldest
// event on the last fetched page starts more than one year before now, or a
// fetch fails.
//
// The completed return is true only for the first two terminations; a
// transport fault stops the walk early but keeps everything already applied
// (counted on stats, completed=false). A non-nil error is returned only
// when apply itself fails, which aborts the entire pass.
func (w *CursorWalker) Walk(
	ctx context.Context,
	ts oauth2.TokenSource,
	stats *domain.SyncStats,
	apply func(domain.EventRecord) error,
) (bool, error) {
	horizon := w.now().Add(-historyWindow)
	after := ""

	for {
		page, err := w.feed.FetchPage(ctx, ts, after)
		if err != nil {
			logger.Error("feed page fetch failed: %v", err)
			stats.TransportFailures++
			return false, nil
		}

		var oldest time.Time
		for _, entry := range page.Entries {
			rec, err := graphnorm.Normalise(entry)
			if err != nil {
				logger.Warn("skipping malformed feed entry: %v", err)
				stats.ParseFailures++
				continue
			}
			if err := apply(rec); err != nil {
				return false, err
			}
			oldest = rec.Start
		}

		// Pages arrive newest first, so the last entry of the page is the
		// oldest fetched so far.
		if !oldest.IsZero() && oldest.Before(horizon) {
			logger.Debug("reached one-year history window, stopping walk")
			return true, nil
		}

		if page.After == "" {
			return true, nil
		}
		after = page.After
	}
}
