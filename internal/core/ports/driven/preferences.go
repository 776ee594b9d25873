package driven

import "github.com/marciozomb13/FBEventSync/internal/core/domain"

// PreferencesSource resolves user preferences. The engine re-reads
// preferences at the start of every pass so toggling a calendar takes
// effect on the next trigger without a restart.
type PreferencesSource interface {
	Preferences() (domain.Preferences, error)
}
