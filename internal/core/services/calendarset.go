package services

import (
	"context"
	"fmt"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driven"
	"github.com/marciozomb13/FBEventSync/internal/logger"
)

// Calendar is one logical calendar during a sync pass. It owns its
// local-store handle exclusively and tracks which external ids the pass has
// seen so FinalizeSync can propagate remote deletions.
type Calendar struct {
	ctype   domain.CalendarType
	enabled bool
	account string
	store   driven.CalendarStore
	stats   *domain.SyncStats

	localID string
	stored  map[string]string   // external id -> fingerprint
	seen    map[string]struct{} // marked during the current pass
}

// Type returns the calendar's type tag.
func (c *Calendar) Type() domain.CalendarType { return c.ctype }

// Enabled reports the user preference for this calendar. Disabled calendars
// are skipped entirely: no fetch, no reconciliation, no finalize.
func (c *Calendar) Enabled() bool { return c.enabled }

// Initialize looks up or creates the local calendar entity and loads the
// stored fingerprint index.
func (c *Calendar) Initialize(ctx context.Context) error {
	id, err := c.store.EnsureCalendar(ctx, c.account, c.ctype)
	if err != nil {
		return fmt.Errorf("%w: ensure %s calendar: %w", domain.ErrStoreFailure, c.ctype, err)
	}
	stored, err := c.store.ListStoredEvents(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: list %s events: %w", domain.ErrStoreFailure, c.ctype, err)
	}

	c.localID = id
	c.stored = stored
	c.seen = make(map[string]struct{})
	return nil
}

// SyncEvent applies one record. Upsert semantics are keyed by external id:
// insert when absent, update when any semantic field differs, no local
// write when unchanged. Cancelled records remove the local entry. In every
// case the id is marked seen for FinalizeSync.
func (c *Calendar) SyncEvent(ctx context.Context, rec domain.EventRecord) error {
	c.seen[rec.ExternalID] = struct{}{}

	fingerprint, exists := c.stored[rec.ExternalID]

	if rec.Cancelled {
		if !exists {
			c.stats.Unchanged++
			return nil
		}
		if err := c.store.DeleteEvent(ctx, c.localID, rec.ExternalID); err != nil {
			return fmt.Errorf("%w: delete cancelled event: %w", domain.ErrStoreFailure, err)
		}
		delete(c.stored, rec.ExternalID)
		c.stats.Deleted++
		return nil
	}

	next := rec.Fingerprint()
	switch {
	case !exists:
		if err := c.store.UpsertEvent(ctx, c.localID, rec); err != nil {
			return fmt.Errorf("%w: insert event: %w", domain.ErrStoreFailure, err)
		}
		c.stats.Inserted++
	case fingerprint != next:
		if err := c.store.UpsertEvent(ctx, c.localID, rec); err != nil {
			return fmt.Errorf("%w: update event: %w", domain.ErrStoreFailure, err)
		}
		c.stats.Updated++
	default:
		c.stats.Unchanged++
	}

	c.stored[rec.ExternalID] = next
	return nil
}

// FinalizeSync deletes every locally stored event whose external id was not
// marked seen during this pass, then clears the marker set. It must only be
// called after the calendar's feed walk ran to completion (or its defined
// early exit); the engine enforces that.
func (c *Calendar) FinalizeSync(ctx context.Context) error {
	for id := range c.stored {
		if _, ok := c.seen[id]; ok {
			continue
		}
		if err := c.store.DeleteEvent(ctx, c.localID, id); err != nil {
			return fmt.Errorf("%w: prune stale event: %w", domain.ErrStoreFailure, err)
		}
		delete(c.stored, id)
		c.stats.Deleted++
	}
	c.seen = make(map[string]struct{})
	logger.Debug("finalized %s calendar", c.ctype)
	return nil
}

// DeleteLocal removes the calendar entity and all its events from the local
// store. Used by the version migration step.
func (c *Calendar) DeleteLocal(ctx context.Context) error {
	if err := c.store.DeleteCalendar(ctx, c.account, c.ctype); err != nil {
		return fmt.Errorf("%w: delete %s calendar: %w", domain.ErrStoreFailure, c.ctype, err)
	}
	c.localID = ""
	c.stored = nil
	c.seen = nil
	return nil
}

// CalendarSet is the collection of logical calendars for one pass, mapped
// by type.
type CalendarSet struct {
	calendars map[domain.CalendarType]*Calendar
}

// NewCalendarSet builds the set of calendars for one pass from the resolved
// preferences. Calendars exist in the set whether enabled or not; callers
// check Enabled before touching the store.
func NewCalendarSet(store driven.CalendarStore, account string, prefs domain.Preferences, stats *domain.SyncStats) *CalendarSet {
	set := &CalendarSet{calendars: make(map[domain.CalendarType]*Calendar)}
	for _, t := range domain.AllCalendarTypes() {
		set.calendars[t] = &Calendar{
			ctype:   t,
			enabled: prefs.CalendarEnabled(t),
			account: account,
			store:   store,
			stats:   stats,
		}
	}
	return set
}

// Initialize prepares every enabled calendar for the pass.
func (s *CalendarSet) Initialize(ctx context.Context) error {
	for _, t := range domain.AllCalendarTypes() {
		cal := s.calendars[t]
		if !cal.Enabled() {
			continue
		}
		if err := cal.Initialize(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the calendar for a type.
func (s *CalendarSet) Get(t domain.CalendarType) *Calendar {
	return s.calendars[t]
}

// ForRecord resolves which calendar a record belongs to via the domain
// dispatch rule. The second return is false when no calendar accepts the
// record.
func (s *CalendarSet) ForRecord(rec domain.EventRecord) (*Calendar, bool) {
	t, ok := domain.CalendarTypeForRecord(rec)
	if !ok {
		return nil, false
	}
	return s.calendars[t], true
}
