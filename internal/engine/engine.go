// Package engine runs a candidate generator against a target index with a
// pool of workers, collecting matches and progress.
package engine

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"edu/blitzforge/internal/errdefs"
	"edu/blitzforge/internal/generator"
	"edu/blitzforge/internal/stats"
	"edu/blitzforge/internal/target"
	"edu/blitzforge/pkg/workerpool"
)

// ErrAlreadyRun is returned by a second call to Run.
var ErrAlreadyRun = errors.New("engine: already run")

type Options struct {
	Workers   int
	BatchSize int
	// QueueDepth is the number of batches buffered ahead of the workers.
	QueueDepth int
	// ProgressInterval and ProgressEvery (in batches) drive progress
	// snapshots; zero disables that trigger.
	ProgressInterval time.Duration
	ProgressEvery    uint64

	Event      func(event string, kv map[string]any)
	OnMatch    func(Match)
	OnProgress func(Snapshot)
}

const DefaultBatchSize = 4096

// Engine is single use: construct, Run once, read the Result.
type Engine struct {
	opts  Options
	gen   generator.Generator
	index *target.Index
	state atomic.Int32
	runID string

	keyspace uint64
	known    bool

	mu    sync.Mutex
	stats *stats.Aggregator
	found map[string]Match
	order []string
	pos   []int

	// test hook, runs inside the worker before each batch is scanned
	beforeScan func(generator.Batch)
}

// New validates targets and options. Duplicate target IDs, a missing
// generator and malformed digests are reported as invalid configuration.
func New(targets []target.Target, gen generator.Generator, opts Options) (*Engine, error) {
	if gen == nil {
		return nil, errdefs.Invalid("engine needs a generator")
	}
	ix, err := target.NewIndex(targets)
	if err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.QueueDepth <= 0 {
		opts.QueueDepth = opts.Workers * 2
	}
	e := &Engine{
		opts:  opts,
		gen:   gen,
		index: ix,
		runID: uuid.NewString(),
		stats: stats.New(),
		found: make(map[string]Match),
	}
	e.keyspace, e.known = gen.EstimatedSize()
	return e, nil
}

func (e *Engine) State() State { return State(e.state.Load()) }

func (e *Engine) RunID() string { return e.runID }

func (e *Engine) event(name string, kv map[string]any) {
	if e.opts.Event == nil {
		return
	}
	if kv == nil {
		kv = map[string]any{}
	}
	kv["run_id"] = e.runID
	e.opts.Event(name, kv)
}

// Run drives the generator to a terminal state. Cancelling ctx lets the
// in-flight batches finish, stops drawing new ones and ends in Aborted with
// ctx's error. A line source or worker failure also ends in Aborted; the
// Result still carries the statistics gathered up to that point.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	if !e.state.CAS(int32(Idle), int32(Running)) {
		return Result{}, ErrAlreadyRun
	}
	e.mu.Lock()
	e.stats = stats.New()
	e.mu.Unlock()
	e.event("start", map[string]any{
		"workers":    e.opts.Workers,
		"batch_size": e.opts.BatchSize,
		"generator":  e.gen.Kind().String(),
		"targets":    e.index.Len(),
		"groups":     len(e.index.Groups()),
		"amortized":  e.index.Amortized(),
		"keyspace":   keyspaceField(e.keyspace, e.known),
	})

	if e.index.Len() == 0 {
		return e.finish(Completed, nil), nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	hits := make(chan hit, e.opts.Workers)
	kick := make(chan struct{}, 1)
	scanners := sync.Pool{New: func() any { return newScanner(e.index) }}

	pool := workerpool.New(runCtx, e.opts.Workers, e.opts.QueueDepth,
		func(ctx context.Context, b generator.Batch) error {
			if e.beforeScan != nil {
				e.beforeScan(b)
			}
			sc := scanners.Get().(*scanner)
			n := sc.scan(b, func(id string, cand []byte) {
				hits <- hit{id: id, candidate: append([]byte(nil), cand...), elapsed: e.stats.Elapsed()}
			})
			scanners.Put(sc)
			batches := e.stats.AddBatch(uint64(len(b)), n)
			if every := e.opts.ProgressEvery; every > 0 && batches%every == 0 {
				select {
				case kick <- struct{}{}:
				default:
				}
			}
			return nil
		})

	sched := &scheduler{gen: e.gen, batchSize: e.opts.BatchSize, pool: pool, event: e.event,
		position: func(p []int) {
			e.mu.Lock()
			e.pos = p
			e.mu.Unlock()
		}}
	var feedErr, poolErr error
	go func() {
		defer close(hits)
		feedErr = sched.feed(runCtx)
		poolErr = pool.Close()
	}()

	var tick <-chan time.Time
	if e.opts.ProgressInterval > 0 {
		t := time.NewTicker(e.opts.ProgressInterval)
		defer t.Stop()
		tick = t.C
	}

loop:
	for {
		select {
		case h, ok := <-hits:
			if !ok {
				break loop
			}
			if e.record(h) && e.foundCount() == e.index.Len() {
				// nothing left to find; stop drawing batches
				cancel()
			}
		case <-tick:
			e.progress()
		case <-kick:
			e.progress()
		}
	}

	switch {
	case e.foundCount() == e.index.Len():
		return e.finish(Completed, nil), nil
	case feedErr != nil:
		err := feedErr
		if !errors.Is(err, errdefs.ErrGeneratorIO) {
			err = errdefs.GeneratorIO(err)
		}
		return e.finish(Aborted, err), err
	case poolErr != nil:
		err := errdefs.WorkerFailure(poolErr)
		return e.finish(Aborted, err), err
	case ctx.Err() != nil:
		return e.finish(Aborted, ctx.Err()), ctx.Err()
	default:
		return e.finish(Exhausted, nil), nil
	}
}

// record keeps the earliest report per target. It returns true the first
// time a target is seen.
func (e *Engine) record(h hit) bool {
	e.mu.Lock()
	prev, seen := e.found[h.id]
	if seen {
		if h.elapsed < prev.Elapsed {
			prev.Candidate, prev.Elapsed = h.candidate, h.elapsed
			prev.At = e.stats.Start().Add(h.elapsed)
			e.found[h.id] = prev
		}
		e.mu.Unlock()
		return false
	}
	t, _ := e.index.Target(h.id)
	m := Match{
		TargetID:  h.id,
		Username:  t.Username,
		Algorithm: t.Algorithm,
		Candidate: h.candidate,
		Elapsed:   h.elapsed,
		At:        e.stats.Start().Add(h.elapsed),
		Tried:     e.stats.Tried(),
	}
	e.found[h.id] = m
	e.order = append(e.order, h.id)
	e.mu.Unlock()

	e.stats.AddFound(1)
	e.event("found", map[string]any{
		"target":    m.TargetID,
		"algo":      m.Algorithm.String(),
		"candidate": m.Password(),
		"tried":     m.Tried,
		"elapsed":   m.Elapsed.Seconds(),
	})
	if e.opts.OnMatch != nil {
		e.opts.OnMatch(m)
	}
	return true
}

func (e *Engine) foundCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.found)
}

// Snapshot reports progress. It is safe to call from any goroutine.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	c := e.stats.Snapshot()
	s := Snapshot{
		Counters:      c,
		Total:         e.index.Len(),
		Keyspace:      e.keyspace,
		KeyspaceKnown: e.known,
		Percent:       c.Percent(e.keyspace, e.known),
		Targets:       make([]TargetStatus, 0, e.index.Len()),
		Position:      append([]int(nil), e.pos...),
	}
	for _, t := range e.index.Targets() {
		_, ok := e.found[t.ID]
		s.Targets = append(s.Targets, TargetStatus{ID: t.ID, Found: ok})
	}
	e.mu.Unlock()
	return s
}

func (e *Engine) progress() {
	s := e.Snapshot()
	e.event("progress", map[string]any{
		"tried":    s.Tried,
		"hashed":   s.Hashed,
		"found":    s.Found,
		"total":    s.Total,
		"rate":     s.Rate,
		"percent":  s.Percent,
		"position": s.Position,
	})
	if e.opts.OnProgress != nil {
		e.opts.OnProgress(s)
	}
}

func (e *Engine) finish(st State, err error) Result {
	e.state.Store(int32(st))
	snap := e.Snapshot()
	e.mu.Lock()
	matches := make([]Match, 0, len(e.order))
	for _, id := range e.order {
		matches = append(matches, e.found[id])
	}
	e.mu.Unlock()

	kv := map[string]any{
		"state":       st.String(),
		"tried":       snap.Tried,
		"hashed":      snap.Hashed,
		"found":       snap.Found,
		"duration_ms": snap.Elapsed.Milliseconds(),
	}
	name := "done"
	if st == Aborted {
		name = "abort"
		if err != nil {
			kv["error"] = err.Error()
		}
	}
	e.event(name, kv)
	if e.opts.OnProgress != nil {
		e.opts.OnProgress(snap)
	}
	return Result{
		RunID:    e.runID,
		State:    st,
		Matches:  matches,
		Final:    snap,
		Duration: snap.Elapsed,
	}
}

func keyspaceField(size uint64, known bool) any {
	if !known {
		return "unknown"
	}
	return size
}
