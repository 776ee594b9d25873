package domain

import "time"

// SyncState is the small piece of state persisted across passes for one
// account. It is read at the start of every pass and written only at the
// engine's defined checkpoints: rate-gate acceptance and version migration.
type SyncState struct {
	// Account identifies whose state this is.
	Account string

	// LastSync is when the most recent pass was accepted by the gate.
	// Updated at acceptance time, before the pass body runs, so overlapping
	// triggers observe the new timestamp even if the pass later fails.
	LastSync time.Time

	// SyncsThisHour counts passes accepted within the current clock hour.
	SyncsThisHour int

	// LastVersion is the application version that last ran a pass. A
	// mismatch with the running version forces calendar recreation.
	LastVersion string
}
