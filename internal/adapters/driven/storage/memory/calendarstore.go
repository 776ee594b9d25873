// Package memory provides in-memory implementations of the driven storage
// ports, used in tests and wherever persistence is not needed.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driven"
)

// Ensure CalendarStore implements the interface.
var _ driven.CalendarStore = (*CalendarStore)(nil)

// CalendarStore is an in-memory implementation of driven.CalendarStore.
type CalendarStore struct {
	mu        sync.RWMutex
	calendars map[string]string                        // "account/type" -> calendar id
	events    map[string]map[string]domain.EventRecord // calendar id -> external id -> record
}

// NewCalendarStore creates a new in-memory calendar store.
func NewCalendarStore() *CalendarStore {
	return &CalendarStore{
		calendars: make(map[string]string),
		events:    make(map[string]map[string]domain.EventRecord),
	}
}

func calendarKey(account string, ctype domain.CalendarType) string {
	return account + "/" + string(ctype)
}

// EnsureCalendar returns the calendar id for the account and type, creating
// the calendar when absent.
func (s *CalendarStore) EnsureCalendar(_ context.Context, account string, ctype domain.CalendarType) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := calendarKey(account, ctype)
	if id, ok := s.calendars[key]; ok {
		return id, nil
	}

	id := uuid.New().String()
	s.calendars[key] = id
	s.events[id] = make(map[string]domain.EventRecord)
	return id, nil
}

// DeleteCalendar removes the calendar and all of its events.
func (s *CalendarStore) DeleteCalendar(_ context.Context, account string, ctype domain.CalendarType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := calendarKey(account, ctype)
	if id, ok := s.calendars[key]; ok {
		delete(s.events, id)
		delete(s.calendars, key)
	}
	return nil
}

// UpsertEvent stores or replaces one event record.
func (s *CalendarStore) UpsertEvent(_ context.Context, calendarID string, rec domain.EventRecord) error {
	if calendarID == "" || !rec.Valid() {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	evs, ok := s.events[calendarID]
	if !ok {
		return fmt.Errorf("%w: calendar %s", domain.ErrNotFound, calendarID)
	}
	evs[rec.ExternalID] = rec
	return nil
}

// DeleteEvent removes one event record by external id.
func (s *CalendarStore) DeleteEvent(_ context.Context, calendarID, externalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if evs, ok := s.events[calendarID]; ok {
		delete(evs, externalID)
	}
	return nil
}

// ListStoredEvents returns the external id to fingerprint mapping for the
// calendar's events.
func (s *CalendarStore) ListStoredEvents(_ context.Context, calendarID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := make(map[string]string)
	for id, rec := range s.events[calendarID] {
		stored[id] = rec.Fingerprint()
	}
	return stored, nil
}

// Events returns a copy of the records stored in a calendar, for test
// assertions.
func (s *CalendarStore) Events(calendarID string) map[string]domain.EventRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.EventRecord, len(s.events[calendarID]))
	for id, rec := range s.events[calendarID] {
		out[id] = rec
	}
	return out
}

// CalendarID returns the id of the calendar for the account and type, or ""
// when it does not exist.
func (s *CalendarStore) CalendarID(account string, ctype domain.CalendarType) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calendars[calendarKey(account, ctype)]
}
