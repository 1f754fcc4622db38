package engine

import (
	"time"

	"edu/blitzforge/internal/hashes"
	"edu/blitzforge/internal/stats"
)

// Match is a recovered target. Elapsed is measured on the monotonic clock
// from the start of the run and is what duplicate reports are ordered by;
// At is the wall-clock time for display.
type Match struct {
	TargetID  string
	Username  string
	Algorithm hashes.Algorithm
	Candidate []byte
	Elapsed   time.Duration
	At        time.Time
	// Tried is the candidate count when the match was recorded.
	Tried uint64
}

func (m Match) Password() string { return string(m.Candidate) }

// TargetStatus is one row of the per-target progress table.
type TargetStatus struct {
	ID    string
	Found bool
}

// Snapshot is a progress report handed to the observer.
type Snapshot struct {
	stats.Counters
	Total         int
	Keyspace      uint64
	KeyspaceKnown bool
	Percent       float64
	Targets       []TargetStatus
	// Position is the generator cursor after the last batch handed to the
	// workers, nil when the generator has none.
	Position []int
}

// Result is what Run returns once the engine reaches a terminal state.
type Result struct {
	RunID    string
	State    State
	Matches  []Match
	Final    Snapshot
	Duration time.Duration
}

// hit is a raw worker report, before deduplication.
type hit struct {
	id        string
	candidate []byte
	elapsed   time.Duration
}
