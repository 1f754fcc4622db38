package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/multierr"
)

// Handler processes one job. A non-nil error, or a panic, fails the pool.
type Handler[T any] func(ctx context.Context, job T) error

// ErrClosed is returned by Submit after Close or after the pool failed.
var ErrClosed = errors.New("workerpool: closed")

// Pool runs a fixed number of workers over a bounded job queue. The first
// failing job cancels the pool context so the other workers stop picking up
// work; every failure is collected and returned from Close.
type Pool[T any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	jobs   chan T
	wg     conc.WaitGroup

	mu     sync.RWMutex
	closed bool

	errMu sync.Mutex
	errs  error
}

// New starts workers goroutines. queue is the job buffer; <= 0 picks
// workers*2, which keeps every worker busy while the producer refills.
func New[T any](ctx context.Context, workers, queue int, h Handler[T]) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	ctx, cancel := context.WithCancel(ctx)
	p := &Pool[T]{
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(chan T, queue),
	}
	for i := 0; i < workers; i++ {
		p.wg.Go(func() { p.work(h) })
	}
	return p
}

func (p *Pool[T]) work(h Handler[T]) {
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			// select picks randomly when both are ready
			if p.ctx.Err() != nil {
				return
			}
			if err := p.run(h, job); err != nil {
				p.fail(err)
				return
			}
		}
	}
}

func (p *Pool[T]) run(h Handler[T], job T) (err error) {
	var pc panics.Catcher
	pc.Try(func() { err = h(p.ctx, job) })
	if r := pc.Recovered(); r != nil {
		return fmt.Errorf("worker panic: %w", r.AsError())
	}
	return err
}

func (p *Pool[T]) fail(err error) {
	p.errMu.Lock()
	p.errs = multierr.Append(p.errs, err)
	p.errMu.Unlock()
	p.cancel()
}

// Submit queues a job, blocking while the queue is full. It returns
// ErrClosed once the pool is closed, failed or its parent context ended.
func (p *Pool[T]) Submit(job T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case <-p.ctx.Done():
		return ErrClosed
	case p.jobs <- job:
		return nil
	}
}

// Close stops accepting jobs, waits for queued jobs to finish and returns
// every handler failure. Jobs still queued when the pool context ends are
// dropped. It is safe to call more than once.
func (p *Pool[T]) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	p.wg.Wait()
	p.cancel()
	return p.Err()
}

// Stop cancels in-flight work without draining the queue, then waits.
func (p *Pool[T]) Stop() error {
	p.cancel()
	return p.Close()
}

// Err is the accumulated handler failures so far.
func (p *Pool[T]) Err() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.errs
}

// Done is closed when the pool context ends: a failure, Stop, Close or
// cancellation of the parent.
func (p *Pool[T]) Done() <-chan struct{} { return p.ctx.Done() }
