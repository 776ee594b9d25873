package driven

import (
	"context"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
)

// SyncStateStore persists per-account sync state (rate-limiter timestamps
// and the last-seen application version) across passes.
type SyncStateStore interface {
	// Get retrieves the state for an account. Returns an error wrapping
	// domain.ErrNotFound when no state has been persisted yet.
	Get(ctx context.Context, account string) (*domain.SyncState, error)

	// Save stores or replaces the state for state.Account.
	Save(ctx context.Context, state domain.SyncState) error
}
