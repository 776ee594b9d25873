// Package notify implements the reauthentication notifier for a headless
// agent: a warning on standard error telling the user how to restore
// credentials.
package notify

import (
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driven"
	"github.com/marciozomb13/FBEventSync/internal/logger"
)

// Ensure StderrNotifier implements the interface.
var _ driven.Notifier = (*StderrNotifier)(nil)

// StderrNotifier surfaces reauthentication prompts on standard error.
type StderrNotifier struct{}

// NewStderrNotifier creates a stderr-backed notifier.
func NewStderrNotifier() *StderrNotifier {
	return &StderrNotifier{}
}

// NotifyNeedsReauthentication tells the user that syncing is paused until
// fresh credentials are stored.
func (n *StderrNotifier) NotifyNeedsReauthentication(account string) {
	logger.Warn("account %s needs reauthentication: run 'fbeventsync auth set' to store fresh credentials", account)
}
