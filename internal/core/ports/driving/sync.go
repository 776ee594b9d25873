// Package driving defines the interfaces through which the outside world
// drives the sync core.
package driving

import (
	"context"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
)

// SyncEngine triggers sync passes. At most one pass is active process-wide;
// a trigger while a pass is running fails with domain.ErrSyncInProgress and
// is not queued or retried.
type SyncEngine interface {
	// TriggerSync runs one sync pass for the account and returns its
	// statistics. A rate-limited skip returns the stats gathered so far and
	// domain.ErrRateLimited; callers treat that as an expected no-op.
	TriggerSync(ctx context.Context, account string) (*domain.SyncStats, error)
}
