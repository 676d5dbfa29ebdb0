// Package runner drives jobs through their lifecycle: it claims queued jobs,
// executes the generation pipeline under a wall-clock budget, and decides
// between commit, retry and dead-letter. It is the only place that makes
// retry decisions; the pipeline itself never swallows errors.
package runner

import (
	"context"
	"errors"
	"time"

	"github.com/drafterhq/drafter/internal/domain"
	"github.com/drafterhq/drafter/internal/generate"
	"github.com/drafterhq/drafter/internal/infra"
)

// Policy holds the operational tuning knobs for retries. The bounds are
// deployment configuration, not algorithmic constants.
type Policy struct {
	MaxAttempts    int
	BackoffBase    time.Duration
	AttemptTimeout time.Duration
}

// DefaultPolicy returns the default retry tuning.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		BackoffBase:    500 * time.Millisecond,
		AttemptTimeout: 30 * time.Second,
	}
}

func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.BackoffBase <= 0 {
		p.BackoffBase = def.BackoffBase
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = def.AttemptTimeout
	}
	return p
}

// Backoff returns the redelivery delay before the given (1-based) attempt.
func (p Policy) Backoff(attempt int) time.Duration {
	d := p.BackoffBase
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}

// ArtifactSink receives the completed bundle for out-of-band persistence
// (local artifact directory, object storage). Sink failures are logged but
// never fail the job: the committed record remains the source of truth.
type ArtifactSink interface {
	Save(ctx context.Context, job *domain.Job) error
}

// Runner executes one job attempt at a time. Many runners may process
// different jobs concurrently; the repository's atomic claim guarantees a
// single job is never run by two of them.
type Runner struct {
	jobs   domain.JobRepository
	opps   domain.OpportunityRepository
	queue  domain.Queue
	dead   domain.DeadLetter
	gen    *generate.Generator
	policy Policy
	logger infra.Logger
	sink   ArtifactSink
	now    func() time.Time
}

// New wires a runner. opps may be nil when every job carries an inline
// opportunity payload.
func New(jobs domain.JobRepository, opps domain.OpportunityRepository, q domain.Queue, dead domain.DeadLetter, gen *generate.Generator, policy Policy, logger infra.Logger) *Runner {
	return &Runner{
		jobs:   jobs,
		opps:   opps,
		queue:  q,
		dead:   dead,
		gen:    gen,
		policy: policy.withDefaults(),
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the runner clock, for tests.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// WithArtifactSink attaches an optional sink for completed bundles.
func (r *Runner) WithArtifactSink(sink ArtifactSink) *Runner {
	r.sink = sink
	return r
}

// Process handles one queue message end to end. It returns an error only
// for infrastructure failures; job-level failures are absorbed into the job
// record and the retry/dead-letter flow.
func (r *Runner) Process(ctx context.Context, msg domain.Message) error {
	job, err := r.jobs.Claim(ctx, msg.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotClaimable) || errors.Is(err, domain.ErrNotFound) {
			// Cancelled, already running elsewhere, or already terminal.
			// At-least-once delivery makes duplicate messages normal.
			r.logger.Debug().Str("job_id", msg.JobID).Err(err).Msg("runner: skipping message")
			return nil
		}
		return err
	}
	r.logger.Info().Str("job_id", job.ID).Int("attempt", job.Attempts).Msg("runner: claimed job")

	// Shutdown boundary between claim and execution: hand the job back
	// rather than starting work we will not finish.
	if ctx.Err() != nil {
		job.Requeue(r.now())
		if err := r.jobs.Update(context.WithoutCancel(ctx), job); err != nil {
			r.logger.Error().Err(err).Str("job_id", job.ID).Msg("runner: requeue on shutdown failed")
		}
		return ctx.Err()
	}

	opp, err := r.resolveOpportunity(ctx, job)
	if err != nil {
		return r.settle(ctx, job, err)
	}
	job.Progress = 0.3
	job.UpdatedAt = r.now()
	if err := r.jobs.Update(ctx, job); err != nil {
		return err
	}

	outputs, err := r.execute(ctx, opp)
	if err != nil {
		return r.settle(ctx, job, err)
	}

	job.Progress = 0.8
	if err := job.Complete(outputs, r.now()); err != nil {
		return r.settle(ctx, job, err)
	}
	if err := r.jobs.Update(ctx, job); err != nil {
		return err
	}
	r.logger.Info().
		Str("job_id", job.ID).
		Int("sections", outputs.Structure.SectionCount()).
		Int("line_items", len(outputs.Estimate.LineItems)).
		Msg("runner: job completed")

	if r.sink != nil {
		if err := r.sink.Save(ctx, job); err != nil {
			r.logger.Warn().Err(err).Str("job_id", job.ID).Msg("runner: artifact persistence failed")
		}
	}
	return nil
}

func (r *Runner) resolveOpportunity(ctx context.Context, job *domain.Job) (*domain.Opportunity, error) {
	if job.Opportunity != nil {
		return job.Opportunity, nil
	}
	if r.opps == nil {
		return nil, domain.NewValidationError("job %s: no inline payload and no opportunity source configured", job.ID)
	}
	return r.opps.Get(ctx, job.Source, job.RecordID)
}

// execute runs the pipeline under the attempt's wall-clock budget. The
// generator is synchronous and CPU-only; exceeding the budget indicates a
// defect and is treated as a retryable failure.
func (r *Runner) execute(ctx context.Context, opp *domain.Opportunity) (*domain.Outputs, error) {
	type result struct {
		outputs *domain.Outputs
		err     error
	}
	resCh := make(chan result, 1)
	go func() {
		outputs, err := r.gen.Generate(opp)
		resCh <- result{outputs: outputs, err: err}
	}()

	timer := time.NewTimer(r.policy.AttemptTimeout)
	defer timer.Stop()
	select {
	case res := <-resCh:
		return res.outputs, res.err
	case <-timer.C:
		return nil, domain.NewTransientError("attempt exceeded wall-clock budget", nil)
	case <-ctx.Done():
		return nil, domain.NewTransientError("attempt interrupted", ctx.Err())
	}
}

// settle records the attempt's error and routes the job: retry with backoff
// for retryable failures with budget left, otherwise terminal FAILED with a
// dead-letter publish when the retry budget was exhausted.
func (r *Runner) settle(ctx context.Context, job *domain.Job, cause error) error {
	now := r.now()
	job.RecordError(cause, now)
	kind := domain.Classify(cause)

	if domain.Retryable(cause) && job.Attempts < r.policy.MaxAttempts {
		job.Requeue(now)
		if err := r.jobs.Update(ctx, job); err != nil {
			return err
		}
		msg := domain.Message{JobID: job.ID, NotBefore: now.Add(r.policy.Backoff(job.Attempts))}
		if err := r.queue.Enqueue(ctx, msg); err != nil {
			return err
		}
		r.logger.Warn().
			Str("job_id", job.ID).
			Str("kind", string(kind)).
			Int("attempt", job.Attempts).
			Err(cause).
			Msg("runner: attempt failed, retrying")
		return nil
	}

	job.Fail(now)
	if err := r.jobs.Update(ctx, job); err != nil {
		return err
	}
	r.logger.Error().
		Str("job_id", job.ID).
		Str("kind", string(kind)).
		Int("attempts", job.Attempts).
		Err(cause).
		Msg("runner: job failed")

	if domain.Retryable(cause) && r.dead != nil {
		if err := r.dead.Publish(ctx, job.Clone()); err != nil {
			r.logger.Error().Err(err).Str("job_id", job.ID).Msg("runner: dead-letter publish failed")
			return err
		}
	}
	return nil
}
