package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/drafterhq/drafter/internal/adapter/repo"
	"github.com/drafterhq/drafter/internal/dict"
	"github.com/drafterhq/drafter/internal/domain"
	"github.com/drafterhq/drafter/internal/generate"
	"github.com/drafterhq/drafter/internal/infra"
	"github.com/drafterhq/drafter/internal/queue"
	"github.com/drafterhq/drafter/internal/runner"
	"github.com/drafterhq/drafter/internal/sqlinline"
	"github.com/drafterhq/drafter/internal/storage"
)

const jobPollInterval = 2 * time.Second

// The worker binary processes jobs from the PostgreSQL store. A poll loop
// feeds queued job ids into the in-process queue; the atomic claim in the
// repository keeps concurrent workers from running the same job twice, so
// duplicate delivery from polling is harmless.
func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig(true)
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	dictionary := dict.Default()
	if cfg.DictionaryPath != "" {
		dictionary, err = dict.LoadFile(cfg.DictionaryPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: dictionary load failed")
		}
	}
	handle, err := dict.NewHandle(dictionary)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: dictionary rejected")
	}
	logger.Info().Str("dictionary", dictionary.Version).Msg("worker: dictionary loaded")

	jobs := repo.NewJobRepositoryPG(pool)
	opportunities := repo.NewOpportunityRepositoryFile(cfg.OpportunityDir)
	jobQueue := queue.NewMemory(cfg.QueueCapacity)
	deadLetters := queue.NewDeadLetterChannel(cfg.QueueCapacity)

	artifacts, err := storage.NewArtifactStore(cfg.ArtifactDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure artifact storage")
	}

	generator := generate.New(handle)
	policy := runner.Policy{
		MaxAttempts:    cfg.MaxAttempts,
		BackoffBase:    cfg.BackoffBase,
		AttemptTimeout: cfg.AttemptTimeout,
	}
	run := runner.New(jobs, opportunities, jobQueue, deadLetters, generator, policy, logger).
		WithArtifactSink(artifacts)
	workers := runner.NewPool(run, jobQueue, cfg.Workers)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return workers.Run(gCtx) })
	g.Go(func() error { return pollQueuedJobs(gCtx, pool, jobQueue, policy, logger) })
	g.Go(func() error {
		drainDeadLetters(gCtx, deadLetters, logger)
		return nil
	})

	logger.Info().Msg("worker: started")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

// pollQueuedJobs periodically scans the store for deliverable jobs and
// feeds them to the runner pool. Retried jobs are held back until their
// backoff window has passed.
func pollQueuedJobs(ctx context.Context, pool *pgxpool.Pool, jobQueue domain.Queue, policy runner.Policy, logger infra.Logger) error {
	backoffSecs := policy.BackoffBase.Seconds()
	ticker := time.NewTicker(jobPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		rows, err := pool.Query(ctx, sqlinline.QPollQueuedJobs, backoffSecs, 32)
		if err != nil {
			logger.Error().Err(err).Msg("worker: poll queued jobs failed")
			continue
		}
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				logger.Error().Err(err).Msg("worker: scan queued job id failed")
				break
			}
			ids = append(ids, id)
		}
		rows.Close()

		for _, id := range ids {
			if err := jobQueue.Enqueue(ctx, domain.Message{JobID: id}); err != nil {
				return err
			}
		}
	}
}

func drainDeadLetters(ctx context.Context, deadLetters *queue.DeadLetterChannel, logger infra.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-deadLetters.Chan():
			logger.Error().
				Str("job_id", job.ID).
				Int("attempts", job.Attempts).
				Interface("errors", job.Errors).
				Msg("worker: job dead-lettered, human intervention expected")
		}
	}
}
