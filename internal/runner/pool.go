package runner

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/drafterhq/drafter/internal/domain"
)

// Pool runs a fixed number of workers that dequeue and process jobs until
// the context is cancelled. Each in-flight message occupies one worker.
type Pool struct {
	runner  *Runner
	queue   domain.Queue
	workers int
}

// NewPool creates a worker pool of the given size (minimum 1).
func NewPool(r *Runner, q domain.Queue, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{runner: r, queue: q, workers: workers}
}

// Run blocks until ctx is cancelled, then waits for in-flight attempts to
// settle. A context cancellation is a clean shutdown, not an error.
func (p *Pool) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			for {
				msg, err := p.queue.Dequeue(gCtx)
				if err != nil {
					if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
						return nil
					}
					return err
				}
				if err := p.runner.Process(gCtx, msg); err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					p.runner.logger.Error().Err(err).Str("job_id", msg.JobID).Msg("runner: processing error")
				}
			}
		})
	}
	return g.Wait()
}
