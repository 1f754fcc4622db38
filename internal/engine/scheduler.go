package engine

import (
	"context"
	"errors"
	"io"

	"edu/blitzforge/internal/generator"
	"edu/blitzforge/pkg/workerpool"
)

// scheduler is the only goroutine that touches the generator. It pulls
// batches and hands them to the pool until the stream ends, the run is
// cancelled or the pool stops accepting work.
type scheduler struct {
	gen       generator.Generator
	batchSize int
	pool      *workerpool.Pool[generator.Batch]
	event     func(string, map[string]any)
	// position receives the cursor after every batch drawn
	position func([]int)
}

// feed returns nil on end of stream and on cancellation; only a generator
// failure is an error.
func (s *scheduler) feed(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		batch, err := s.gen.NextBatch(s.batchSize)
		if errors.Is(err, io.EOF) {
			s.event("exhausted", map[string]any{"kind": s.gen.Kind().String()})
			return nil
		}
		if err != nil {
			return err
		}
		if c, ok := s.gen.(generator.Cursor); ok && s.position != nil {
			s.position(c.Position())
		}
		if err := s.pool.Submit(batch); err != nil {
			return nil
		}
	}
}
