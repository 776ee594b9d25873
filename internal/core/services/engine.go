package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driven"
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driving"
	"github.com/marciozomb13/FBEventSync/internal/logger"
	"github.com/marciozomb13/FBEventSync/internal/metrics"
	icalnorm "github.com/marciozomb13/FBEventSync/internal/normalisers/ical"
)

// Ensure Engine implements the driving port.
var _ driving.SyncEngine = (*Engine)(nil)

// PassState is where the pass state machine currently is. Failure paths
// short-circuit back to StateIdle from any state.
type PassState int32

const (
	StateIdle PassState = iota
	StateRateLimitCheck
	StateAuthenticating
	StateFetching
	StateReconciling
	StateFinalizing
)

// String returns the state name for logs.
func (s PassState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRateLimitCheck:
		return "rate-limit-check"
	case StateAuthenticating:
		return "authenticating"
	case StateFetching:
		return "fetching"
	case StateReconciling:
		return "reconciling"
	case StateFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// Engine orchestrates sync passes. One pass runs the state machine
// Idle -> RateLimitCheck -> Authenticating -> Fetching -> Reconciling ->
// Finalizing -> Idle sequentially, with no internal parallelism across
// calendars or pages.
type Engine struct {
	version    string
	gate       *PassGate
	auth       *AuthGate
	graph      driven.GraphFeed
	ical       driven.ICalFeed
	calendars  driven.CalendarStore
	stateStore driven.SyncStateStore
	prefs      driven.PreferencesSource
	notifier   driven.Notifier

	now func() time.Time

	// inFlight is the process-wide single-flight guard. It is set at pass
	// entry and cleared on every exit path.
	inFlight  atomic.Bool
	passState atomic.Int32
}

// NewEngine creates a sync engine. version is the running application
// version; a mismatch with the persisted last-seen version forces calendar
// recreation before the next pass.
func NewEngine(
	version string,
	gate *PassGate,
	auth *AuthGate,
	graph driven.GraphFeed,
	ical driven.ICalFeed,
	calendars driven.CalendarStore,
	stateStore driven.SyncStateStore,
	prefs driven.PreferencesSource,
	notifier driven.Notifier,
) *Engine {
	return &Engine{
		version:    version,
		gate:       gate,
		auth:       auth,
		graph:      graph,
		ical:       ical,
		calendars:  calendars,
		stateStore: stateStore,
		prefs:      prefs,
		notifier:   notifier,
		now:        time.Now,
	}
}

// State returns where the state machine currently is.
func (e *Engine) State() PassState {
	return PassState(e.passState.Load())
}

func (e *Engine) setState(s PassState) {
	e.passState.Store(int32(s))
	logger.Debug("pass state: %s", s)
}

// TriggerSync runs one sync pass for the account. A trigger while another
// pass is in flight is dropped with domain.ErrSyncInProgress.
func (e *Engine) TriggerSync(ctx context.Context, account string) (*domain.SyncStats, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		logger.Warn("another sync already running, dropping trigger for %s", account)
		return nil, domain.ErrSyncInProgress
	}
	defer func() {
		e.setState(StateIdle)
		e.inFlight.Store(false)
	}()

	stats := &domain.SyncStats{}
	logger.Info("sync pass requested for account %s", account)

	prefs, err := e.prefs.Preferences()
	if err != nil {
		stats.StoreFailures++
		metrics.RecordPass(metrics.OutcomeStoreFailure)
		return stats, fmt.Errorf("%w: resolve preferences: %w", domain.ErrStoreFailure, err)
	}

	e.setState(StateRateLimitCheck)
	state := domain.SyncState{Account: account}
	if existing, err := e.stateStore.Get(ctx, account); err == nil {
		state = *existing
	} else if !errors.Is(err, domain.ErrNotFound) {
		stats.StoreFailures++
		metrics.RecordPass(metrics.OutcomeStoreFailure)
		return stats, fmt.Errorf("%w: load sync state: %w", domain.ErrStoreFailure, err)
	}

	state, ok := e.gate.Evaluate(state, e.now())
	if !ok {
		// Expected skip, not an error worth surfacing to the user.
		metrics.RecordPass(metrics.OutcomeRateLimited)
		return stats, domain.ErrRateLimited
	}
	if err := e.stateStore.Save(ctx, state); err != nil {
		stats.StoreFailures++
		metrics.RecordPass(metrics.OutcomeStoreFailure)
		return stats, fmt.Errorf("%w: save sync state: %w", domain.ErrStoreFailure, err)
	}

	e.setState(StateAuthenticating)
	cred, err := e.auth.Acquire(ctx, account)
	if err != nil {
		return stats, e.failAuth(stats, account, err)
	}

	needsICal := prefs.BirthdaysEnabled || (prefs.EventsEnabled && prefs.Source == domain.SourceICal)
	if needsICal {
		if err := e.auth.AcquireFeedCredentials(ctx, cred); err != nil {
			return stats, e.failAuth(stats, account, err)
		}
	}

	if state.LastVersion != e.version {
		logger.Info("new version detected (%q -> %q): recreating calendars", state.LastVersion, e.version)
		if err := e.recreateCalendars(ctx, account); err != nil {
			stats.StoreFailures++
			metrics.RecordPass(metrics.OutcomeStoreFailure)
			return stats, err
		}
		state.LastVersion = e.version
		if err := e.stateStore.Save(ctx, state); err != nil {
			stats.StoreFailures++
			metrics.RecordPass(metrics.OutcomeStoreFailure)
			return stats, fmt.Errorf("%w: save sync state: %w", domain.ErrStoreFailure, err)
		}
	}

	set := NewCalendarSet(e.calendars, account, prefs, stats)
	if err := set.Initialize(ctx); err != nil {
		stats.StoreFailures++
		metrics.RecordPass(metrics.OutcomeStoreFailure)
		return stats, err
	}

	// Events calendar first, then birthdays. The two walks finalize
	// independently; a failed events walk never blocks the birthday sync.
	events := set.Get(domain.CalendarEvents)
	if events.Enabled() {
		completed, err := e.syncEvents(ctx, cred, set, prefs, stats)
		if err != nil {
			stats.StoreFailures++
			metrics.RecordPass(metrics.OutcomeStoreFailure)
			return stats, err
		}
		if completed {
			e.setState(StateFinalizing)
			if err := events.FinalizeSync(ctx); err != nil {
				stats.StoreFailures++
				metrics.RecordPass(metrics.OutcomeStoreFailure)
				return stats, err
			}
		}
	}

	birthdays := set.Get(domain.CalendarBirthdays)
	if birthdays.Enabled() {
		completed, err := e.syncICalFeed(ctx, cred, set, domain.CalendarBirthdays, prefs, stats)
		if err != nil {
			stats.StoreFailures++
			metrics.RecordPass(metrics.OutcomeStoreFailure)
			return stats, err
		}
		if completed {
			e.setState(StateFinalizing)
			if err := birthdays.FinalizeSync(ctx); err != nil {
				stats.StoreFailures++
				metrics.RecordPass(metrics.OutcomeStoreFailure)
				return stats, err
			}
		}
	}

	outcome := metrics.OutcomeSuccess
	if stats.TransportFailures > 0 || stats.ParseFailures > 0 {
		outcome = metrics.OutcomePartial
	}
	metrics.RecordPass(outcome)
	metrics.RecordStats(stats)

	logger.Info("sync for %s done: %s", account, stats.Summary())
	return stats, nil
}

// syncEvents walks the events feed in the configured shape.
func (e *Engine) syncEvents(
	ctx context.Context,
	cred *domain.Credential,
	set *CalendarSet,
	prefs domain.Preferences,
	stats *domain.SyncStats,
) (bool, error) {
	if prefs.Source == domain.SourceGraph {
		e.setState(StateFetching)
		walker := NewCursorWalker(e.graph)
		walker.now = e.now
		return walker.Walk(ctx, cred.TokenSource(), stats, func(rec domain.EventRecord) error {
			return e.applyRecord(ctx, set, rec, prefs, stats)
		})
	}
	return e.syncICalFeed(ctx, cred, set, domain.CalendarEvents, prefs, stats)
}

// syncICalFeed fetches one iCal document and reconciles it in one sweep.
// Transport and whole-document parse faults are counted and end the walk
// without completing it; they do not abort the pass.
func (e *Engine) syncICalFeed(
	ctx context.Context,
	cred *domain.Credential,
	set *CalendarSet,
	ctype domain.CalendarType,
	prefs domain.Preferences,
	stats *domain.SyncStats,
) (bool, error) {
	e.setState(StateFetching)
	body, err := e.ical.Fetch(ctx, cred.FeedUID, cred.FeedKey, prefs.ResolvedLocale(), ctype)
	if err != nil {
		logger.Error("error retrieving %s iCal document: %v", ctype, err)
		stats.TransportFailures++
		return false, nil
	}

	e.setState(StateReconciling)
	kind := domain.KindEvent
	if ctype == domain.CalendarBirthdays {
		kind = domain.KindBirthday
	}
	records, skipped, err := icalnorm.NormaliseDocument(body, kind, e.now())
	if err != nil {
		logger.Error("error parsing %s iCal document: %v", ctype, err)
		stats.ParseFailures++
		return false, nil
	}
	stats.ParseFailures += skipped

	for _, rec := range records {
		if err := e.applyRecord(ctx, set, rec, prefs, stats); err != nil {
			return false, err
		}
	}
	return true, nil
}

// applyRecord dispatches a record to its calendar and reconciles it.
// Records no calendar accepts are counted and dropped; records for a
// disabled calendar are ignored.
func (e *Engine) applyRecord(
	ctx context.Context,
	set *CalendarSet,
	rec domain.EventRecord,
	prefs domain.Preferences,
	stats *domain.SyncStats,
) error {
	cal, ok := set.ForRecord(rec)
	if !ok {
		logger.Error("failed to find calendar for event %s", rec.ExternalID)
		stats.Unmatched++
		return nil
	}
	if !cal.Enabled() {
		return nil
	}
	return cal.SyncEvent(ctx, rec.WithReminder(prefs.ReminderMinutes))
}

// recreateCalendars deletes every local calendar so initialization builds
// them fresh. Run when the persisted last-seen version differs from the
// running one; idempotent if run twice.
func (e *Engine) recreateCalendars(ctx context.Context, account string) error {
	for _, t := range domain.AllCalendarTypes() {
		if err := e.calendars.DeleteCalendar(ctx, account, t); err != nil {
			return fmt.Errorf("%w: cleanup %s calendar: %w", domain.ErrStoreFailure, t, err)
		}
	}
	return nil
}

// failAuth accounts an authentication failure and raises the reauth
// notification when user action is required. Only ErrReauthRequired is ever
// user-visible; the rest rely on the next scheduled pass.
func (e *Engine) failAuth(stats *domain.SyncStats, account string, err error) error {
	switch {
	case errors.Is(err, domain.ErrReauthRequired):
		logger.Info("needs reauthentication, waiting for user")
		stats.ReauthRequired++
		e.notifier.NotifyNeedsReauthentication(account)
		metrics.RecordPass(metrics.OutcomeAuthNeeded)
	case errors.Is(err, domain.ErrAuthCancelled):
		logger.Error("failed to obtain auth token: %v", err)
		stats.AuthCancelled++
		metrics.RecordPass(metrics.OutcomeAuthFailure)
	case errors.Is(err, domain.ErrAuthUnavailable):
		logger.Error("failed to obtain auth token: %v", err)
		stats.AuthUnavailable++
		metrics.RecordPass(metrics.OutcomeAuthFailure)
	default:
		logger.Error("failed to obtain auth token: %v", err)
		stats.AuthIO++
		metrics.RecordPass(metrics.OutcomeAuthFailure)
	}
	return err
}
