// Package worker runs index-range work across a bounded set of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/accakut/facspair/pkg/logger"
	"github.com/accakut/facspair/pkg/metrics"
)

// Pool splits index ranges into contiguous chunks and runs them concurrently.
type Pool struct {
	name    string
	workers int
	logger  logger.Logger
}

// NewPool creates a pool with workerCount goroutines. A count below one
// selects runtime.NumCPU().
func NewPool(workerCount int, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		name:    "worker-pool",
		workers: workerCount,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}

	metrics.UpdateWorkerCount(workerCount)

	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.workers
}

// Range calls fn over [0, n) split into at most Size() contiguous chunks.
// Each call receives a half-open range [lo, hi).
// Chunks are ordered and do not overlap. The first error returned by a
// chunk cancels the context handed to the others and is returned.
func (p *Pool) Range(ctx context.Context, n int, fn func(ctx context.Context, lo, hi int) error) error {
	if fn == nil {
		return ErrNilFunc
	}
	if n <= 0 {
		return nil
	}

	chunks := p.workers
	if chunks > n {
		chunks = n
	}
	size := (n + chunks - 1) / chunks

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			err := fn(gctx, lo, hi)
			metrics.ObserveWorkerChunk(time.Since(start))
			if err != nil {
				return fmt.Errorf("chunk [%d,%d): %w", lo, hi, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		metrics.RecordErrorByComponent("worker", "chunk_error")
		p.logger.Debug(ctx, "range aborted",
			logger.Int("items", n),
			logger.Error(err),
		)
		return err
	}

	p.logger.Debug(ctx, "range complete",
		logger.Int("items", n),
		logger.Int("chunk_size", size),
	)
	return nil
}
