package domain

import "fmt"

// SyncStats accumulates typed counters over one sync pass. A single pass
// owns its accumulator exclusively; nothing in it is safe for concurrent
// mutation and nothing needs to be.
type SyncStats struct {
	// Local write accounting.
	Inserted  int
	Updated   int
	Deleted   int
	Unchanged int

	// Failure accounting, one counter per taxonomy entry.
	ParseFailures     int
	TransportFailures int
	StoreFailures     int
	AuthCancelled     int
	AuthUnavailable   int
	AuthIO            int
	ReauthRequired    int

	// Unmatched counts records no calendar accepted.
	Unmatched int
}

// Writes returns the number of local mutations the pass performed.
func (s *SyncStats) Writes() int {
	return s.Inserted + s.Updated + s.Deleted
}

// Failures returns the total number of counted failures.
func (s *SyncStats) Failures() int {
	return s.ParseFailures + s.TransportFailures + s.StoreFailures +
		s.AuthCancelled + s.AuthUnavailable + s.AuthIO
}

// Summary renders the counters for the end-of-pass log line.
func (s *SyncStats) Summary() string {
	return fmt.Sprintf(
		"inserted=%d updated=%d deleted=%d unchanged=%d parse_failures=%d transport_failures=%d store_failures=%d unmatched=%d",
		s.Inserted, s.Updated, s.Deleted, s.Unchanged,
		s.ParseFailures, s.TransportFailures, s.StoreFailures, s.Unmatched,
	)
}
