package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func storeRecord(id string) domain.EventRecord {
	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	return domain.EventRecord{
		ExternalID: id,
		Kind:       domain.KindEvent,
		Title:      "Event " + id,
		Start:      start,
		End:        start.Add(time.Hour),
		Timezone:   "UTC",
	}
}

func TestStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// Reopening the same database must not re-run applied migrations.
	second, err := NewStore(dir)
	require.NoError(t, err)
	assert.NoError(t, second.Close())
}

func TestCalendarStore_EnsureCalendarIsStable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	calendars := store.CalendarStore()

	id1, err := calendars.EnsureCalendar(ctx, "acc", domain.CalendarEvents)
	require.NoError(t, err)
	id2, err := calendars.EnsureCalendar(ctx, "acc", domain.CalendarEvents)
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "repeated ensure must return the same calendar")

	other, err := calendars.EnsureCalendar(ctx, "acc", domain.CalendarBirthdays)
	require.NoError(t, err)
	assert.NotEqual(t, id1, other)
}

func TestCalendarStore_EventRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	calendars := store.CalendarStore()

	id, err := calendars.EnsureCalendar(ctx, "acc", domain.CalendarEvents)
	require.NoError(t, err)

	rec := storeRecord("e1")
	require.NoError(t, calendars.UpsertEvent(ctx, id, rec))

	stored, err := calendars.ListStoredEvents(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"e1": rec.Fingerprint()}, stored)

	// Upsert with a changed field must replace the fingerprint.
	rec.Title = "Renamed"
	require.NoError(t, calendars.UpsertEvent(ctx, id, rec))
	stored, err = calendars.ListStoredEvents(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, rec.Fingerprint(), stored["e1"])

	require.NoError(t, calendars.DeleteEvent(ctx, id, "e1"))
	stored, err = calendars.ListStoredEvents(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestCalendarStore_DeleteCalendarCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	calendars := store.CalendarStore()

	id, err := calendars.EnsureCalendar(ctx, "acc", domain.CalendarEvents)
	require.NoError(t, err)
	require.NoError(t, calendars.UpsertEvent(ctx, id, storeRecord("e1")))

	require.NoError(t, calendars.DeleteCalendar(ctx, "acc", domain.CalendarEvents))

	// A fresh calendar has a new id and no events.
	fresh, err := calendars.EnsureCalendar(ctx, "acc", domain.CalendarEvents)
	require.NoError(t, err)
	assert.NotEqual(t, id, fresh)

	stored, err := calendars.ListStoredEvents(ctx, fresh)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestCalendarStore_UpsertInvalidRecordFails(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	calendars := store.CalendarStore()

	id, err := calendars.EnsureCalendar(ctx, "acc", domain.CalendarEvents)
	require.NoError(t, err)

	err = calendars.UpsertEvent(ctx, id, domain.EventRecord{Title: "no id"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSyncStateStore_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	states := store.SyncStateStore()

	_, err := states.Get(ctx, "acc")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	state := domain.SyncState{
		Account:       "acc",
		LastSync:      time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		SyncsThisHour: 3,
		LastVersion:   "1.0.0",
	}
	require.NoError(t, states.Save(ctx, state))

	got, err := states.Get(ctx, "acc")
	require.NoError(t, err)
	assert.Equal(t, state.Account, got.Account)
	assert.True(t, state.LastSync.Equal(got.LastSync))
	assert.Equal(t, state.SyncsThisHour, got.SyncsThisHour)
	assert.Equal(t, state.LastVersion, got.LastVersion)

	// Save again with updated counters.
	state.SyncsThisHour = 4
	require.NoError(t, states.Save(ctx, state))
	got, err = states.Get(ctx, "acc")
	require.NoError(t, err)
	assert.Equal(t, 4, got.SyncsThisHour)
}

func TestCredentialStore_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	creds := store.CredentialStore()

	_, err := creds.GetToken(ctx, "acc", driven.TokenAccess)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, creds.SaveToken(ctx, "acc", driven.TokenAccess, "tok-1"))
	require.NoError(t, creds.SaveToken(ctx, "acc", driven.TokenFeedUID, "12345"))

	token, err := creds.GetToken(ctx, "acc", driven.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	// Replacing a token keeps one row per kind.
	require.NoError(t, creds.SaveToken(ctx, "acc", driven.TokenAccess, "tok-2"))
	token, err = creds.GetToken(ctx, "acc", driven.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)

	// Invalidation removes by value, leaving other kinds intact.
	require.NoError(t, creds.InvalidateToken(ctx, "acc", "tok-2"))
	_, err = creds.GetToken(ctx, "acc", driven.TokenAccess)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	uid, err := creds.GetToken(ctx, "acc", driven.TokenFeedUID)
	require.NoError(t, err)
	assert.Equal(t, "12345", uid)
}
