package services

import (
	"time"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
	"github.com/marciozomb13/FBEventSync/internal/logger"
)

const (
	// minSyncSpacing guards against redundant back-to-back triggers.
	minSyncSpacing = 60 * time.Second

	// maxSyncsPerHour caps accepted passes within one clock hour.
	maxSyncsPerHour = 5
)

// PassGate decides whether a sync pass may proceed at all, based on the
// persisted per-account sync state. It is the first check of every pass.
//
// The hour window is keyed on hour-of-day. The counter resets when the
// wall-clock hour of the last sync differs from the current one, and resets
// unconditionally once more than a full hour has elapsed.
type PassGate struct {
	// Bypass disables all gating. Set explicitly from debug/test
	// configuration, never inferred from the environment.
	Bypass bool
}

// NewPassGate returns a gate with the given bypass setting.
func NewPassGate(bypass bool) *PassGate {
	return &PassGate{Bypass: bypass}
}

// Evaluate decides whether a trigger at now may proceed and returns the
// updated state to persist on acceptance. On acceptance LastSync is set to
// now immediately, before the pass body runs, so overlapping triggers
// observe the new timestamp even if the pass later fails. On rejection the
// state is returned unchanged.
func (g *PassGate) Evaluate(state domain.SyncState, now time.Time) (domain.SyncState, bool) {
	if g.Bypass {
		state.LastSync = now
		return state, true
	}

	elapsed := now.Sub(state.LastSync)
	if elapsed < minSyncSpacing {
		logger.Info("skipping sync, last sync was only %ds ago", int(elapsed.Seconds()))
		return state, false
	}

	switch {
	case elapsed > time.Hour:
		// More than a full hour elapsed: reset without requiring an
		// hour-boundary crossing.
		state.SyncsThisHour = 1
	case state.LastSync.Hour() != now.Hour():
		state.SyncsThisHour = 1
	default:
		if state.SyncsThisHour >= maxSyncsPerHour {
			logger.Info("skipping sync, too many syncs this hour")
			return state, false
		}
		state.SyncsThisHour++
	}

	state.LastSync = now
	return state, true
}
