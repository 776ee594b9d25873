package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
)

// fakeGraphFeed serves a scripted page sequence. A page scripted as nil
// fails with a transport error.
type fakeGraphFeed struct {
	pages []*domain.FeedPage
	calls int
}

func (f *fakeGraphFeed) FetchPage(_ context.Context, _ oauth2.TokenSource, _ string) (*domain.FeedPage, error) {
	if f.calls >= len(f.pages) {
		return &domain.FeedPage{}, nil
	}
	page := f.pages[f.calls]
	f.calls++
	if page == nil {
		return nil, fmt.Errorf("%w: connection reset", domain.ErrTransportFailure)
	}
	return page, nil
}

func graphEntry(id string, start time.Time) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(
		`{"id":%q,"name":"Event %s","start_time":%q}`,
		id, id, start.Format("2006-01-02T15:04:05-0700"),
	))
}

func testTokenSource() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"})
}

func collectWalk(t *testing.T, feed *fakeGraphFeed, now time.Time) ([]domain.EventRecord, *domain.SyncStats, bool) {
	t.Helper()
	walker := NewCursorWalker(feed)
	walker.now = func() time.Time { return now }

	stats := &domain.SyncStats{}
	var applied []domain.EventRecord
	completed, err := walker.Walk(context.Background(), testTokenSource(), stats, func(rec domain.EventRecord) error {
		applied = append(applied, rec)
		return nil
	})
	require.NoError(t, err)
	return applied, stats, completed
}

func TestCursorWalker_FollowsCursorUntilExhausted(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	feed := &fakeGraphFeed{pages: []*domain.FeedPage{
		{Entries: []json.RawMessage{graphEntry("a", now), graphEntry("b", now.Add(-time.Hour))}, After: "c1"},
		{Entries: []json.RawMessage{graphEntry("c", now.Add(-2 * time.Hour))}, After: ""},
	}}

	applied, stats, completed := collectWalk(t, feed, now)

	assert.True(t, completed)
	assert.Equal(t, 2, feed.calls)
	require.Len(t, applied, 3)
	assert.Equal(t, "a", applied[0].ExternalID)
	assert.Equal(t, 0, stats.Failures())
}

func TestCursorWalker_StopsAtOneYearHistoryWindow(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	feed := &fakeGraphFeed{pages: []*domain.FeedPage{
		{Entries: []json.RawMessage{graphEntry("recent", now)}, After: "c1"},
		{Entries: []json.RawMessage{graphEntry("ancient", now.AddDate(-2, 0, 0))}, After: "c2"},
		{Entries: []json.RawMessage{graphEntry("never-fetched", now)}, After: ""},
	}}

	applied, _, completed := collectWalk(t, feed, now)

	assert.True(t, completed, "the one-year early exit counts as a completed walk")
	assert.Equal(t, 2, feed.calls, "walk must stop before requesting the third page")
	assert.Len(t, applied, 2, "entries on the boundary page are still applied")
}

func TestCursorWalker_TransportFaultKeepsAppliedEntries(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	feed := &fakeGraphFeed{pages: []*domain.FeedPage{
		{Entries: []json.RawMessage{graphEntry("a", now)}, After: "c1"},
		nil, // second fetch fails
	}}

	applied, stats, completed := collectWalk(t, feed, now)

	assert.False(t, completed, "a transport fault must not count as completion")
	assert.Len(t, applied, 1, "entries applied before the fault stay applied")
	assert.Equal(t, 1, stats.TransportFailures)
}

func TestCursorWalker_MalformedEntryIsSkippedAndCounted(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	feed := &fakeGraphFeed{pages: []*domain.FeedPage{
		{Entries: []json.RawMessage{
			graphEntry("good", now),
			json.RawMessage(`{"id":"bad","start_time":"not-a-time"}`),
			graphEntry("also-good", now),
		}, After: ""},
	}}

	applied, stats, completed := collectWalk(t, feed, now)

	assert.True(t, completed)
	assert.Len(t, applied, 2)
	assert.Equal(t, 1, stats.ParseFailures)
}

func TestCursorWalker_ApplyErrorAbortsWalk(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	feed := &fakeGraphFeed{pages: []*domain.FeedPage{
		{Entries: []json.RawMessage{graphEntry("a", now)}, After: ""},
	}}

	walker := NewCursorWalker(feed)
	walker.now = func() time.Time { return now }

	completed, err := walker.Walk(context.Background(), testTokenSource(), &domain.SyncStats{}, func(domain.EventRecord) error {
		return fmt.Errorf("%w: disk full", domain.ErrStoreFailure)
	})

	assert.False(t, completed)
	assert.ErrorIs(t, err, domain.ErrStoreFailure)
}
