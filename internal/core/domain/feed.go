package domain

import "encoding/json"

// FeedPage is one page of the cursor-paginated JSON feed, as returned by the
// feed collaborator. Entries are raw decoded objects; normalisation into
// EventRecords happens per entry so one malformed entry cannot sink a page.
type FeedPage struct {
	// Entries are the raw event objects in feed order.
	Entries []json.RawMessage

	// After is the opaque cursor for the next page. Empty means the walk
	// reached the end of the feed.
	After string
}
