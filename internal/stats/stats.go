// Package stats accumulates run counters shared by the engine and its workers.
package stats

import (
	"time"

	"go.uber.org/atomic"
)

// Aggregator holds monotonically increasing counters. Workers add to it once
// per batch; readers take a Snapshot at any time and see "at least" values.
type Aggregator struct {
	tried   atomic.Uint64
	hashed  atomic.Uint64
	found   atomic.Uint64
	batches atomic.Uint64

	start time.Time
}

// New starts the clock.
func New() *Aggregator {
	return &Aggregator{start: time.Now()}
}

// AddBatch records one finished batch of n candidates that cost hashes
// digest computations, and returns the batch count including this one.
func (a *Aggregator) AddBatch(n, hashes uint64) uint64 {
	a.tried.Add(n)
	a.hashed.Add(hashes)
	return a.batches.Inc()
}

// AddFound records newly recovered targets.
func (a *Aggregator) AddFound(n uint64) { a.found.Add(n) }

func (a *Aggregator) Tried() uint64   { return a.tried.Load() }
func (a *Aggregator) Hashed() uint64  { return a.hashed.Load() }
func (a *Aggregator) Found() uint64   { return a.found.Load() }
func (a *Aggregator) Batches() uint64 { return a.batches.Load() }

// Start is when the aggregator was created.
func (a *Aggregator) Start() time.Time { return a.start }

// Elapsed uses the monotonic clock reading carried by start.
func (a *Aggregator) Elapsed() time.Duration { return time.Since(a.start) }

// Counters is a point-in-time copy of the aggregator.
type Counters struct {
	Tried   uint64
	Hashed  uint64
	Found   uint64
	Batches uint64
	Elapsed time.Duration
	// Rate is digests per second over the whole run.
	Rate float64
}

func (a *Aggregator) Snapshot() Counters {
	c := Counters{
		Tried:   a.tried.Load(),
		Hashed:  a.hashed.Load(),
		Found:   a.found.Load(),
		Batches: a.batches.Load(),
		Elapsed: a.Elapsed(),
	}
	if s := c.Elapsed.Seconds(); s > 0 {
		c.Rate = float64(c.Hashed) / s
	}
	return c
}

// Percent is tried/keyspace in 0..100, or -1 when the keyspace is unknown.
func (c Counters) Percent(keyspace uint64, known bool) float64 {
	if !known || keyspace == 0 {
		return -1
	}
	p := float64(c.Tried) / float64(keyspace) * 100
	if p > 100 {
		p = 100
	}
	return p
}
