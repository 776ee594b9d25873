package driven

import (
	"context"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
)

// CalendarStore is the local store collaborator. Calendars are keyed by
// account and calendar type; at most one local calendar entity exists per
// (account, type) at any time. The store handle is exclusively owned by the
// active pass for its duration.
type CalendarStore interface {
	// EnsureCalendar looks up or creates the local calendar for the given
	// account and type and returns its handle.
	EnsureCalendar(ctx context.Context, account string, ctype domain.CalendarType) (string, error)

	// DeleteCalendar removes the local calendar and all its events.
	// Removing a calendar that does not exist is not an error.
	DeleteCalendar(ctx context.Context, account string, ctype domain.CalendarType) error

	// UpsertEvent inserts or replaces the event keyed by its external id.
	UpsertEvent(ctx context.Context, calendarID string, rec domain.EventRecord) error

	// DeleteEvent removes the event with the given external id.
	DeleteEvent(ctx context.Context, calendarID, externalID string) error

	// ListStoredEvents returns external id -> fingerprint for every event
	// stored in the calendar.
	ListStoredEvents(ctx context.Context, calendarID string) (map[string]string, error)
}
