package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/drafterhq/drafter/internal/adapter/repo"
	"github.com/drafterhq/drafter/internal/dict"
	"github.com/drafterhq/drafter/internal/domain"
	"github.com/drafterhq/drafter/internal/generate"
	"github.com/drafterhq/drafter/internal/http/handlers"
	"github.com/drafterhq/drafter/internal/http/httpapi"
	"github.com/drafterhq/drafter/internal/infra"
	"github.com/drafterhq/drafter/internal/queue"
	"github.com/drafterhq/drafter/internal/runner"
	"github.com/drafterhq/drafter/internal/storage"
)

// The api binary serves the trigger/status surface and runs the generation
// pool in-process. With DATABASE_URL set it writes jobs to the PostgreSQL
// store shared with cmd/worker; the atomic claim keeps the in-process pool
// and external workers from running the same job twice. Without it the api
// is self-contained on an in-memory store.
func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig(false)
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dictionary := dict.Default()
	if cfg.DictionaryPath != "" {
		dictionary, err = dict.LoadFile(cfg.DictionaryPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: dictionary load failed")
		}
	}
	handle, err := dict.NewHandle(dictionary)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: dictionary rejected")
	}
	logger.Info().Str("dictionary", dictionary.Version).Msg("api: dictionary loaded")

	var jobs domain.JobRepository
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: db connection failed")
		}
		defer pool.Close()
		jobs = repo.NewJobRepositoryPG(pool)
		logger.Info().Msg("api: using postgres job store")
	} else {
		jobs = repo.NewJobRepositoryMemory()
		logger.Info().Msg("api: using in-memory job store")
	}
	opportunities := repo.NewOpportunityRepositoryFile(cfg.OpportunityDir)
	jobQueue := queue.NewMemory(cfg.QueueCapacity)
	deadLetters := queue.NewDeadLetterChannel(cfg.QueueCapacity)

	artifacts, err := storage.NewArtifactStore(cfg.ArtifactDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to configure artifact storage")
	}

	generator := generate.New(handle)
	policy := runner.Policy{
		MaxAttempts:    cfg.MaxAttempts,
		BackoffBase:    cfg.BackoffBase,
		AttemptTimeout: cfg.AttemptTimeout,
	}
	run := runner.New(jobs, opportunities, jobQueue, deadLetters, generator, policy, logger).
		WithArtifactSink(artifacts)
	pool := runner.NewPool(run, jobQueue, cfg.Workers)

	go func() {
		if err := pool.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("api: runner pool stopped with error")
		}
	}()
	go drainDeadLetters(ctx, deadLetters, logger)

	app := handlers.NewApp(jobs, jobQueue, logger)
	router := httpapi.NewRouter(app, logger, cfg.RateLimitPerMin)
	server := infra.NewHTTPServer(":"+cfg.Port, router, infra.HTTPTimeouts{
		Read:  cfg.HTTPReadTimeout,
		Write: cfg.HTTPWriteTimeout,
		Idle:  cfg.HTTPIdleTimeout,
	})

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// drainDeadLetters surfaces exhausted jobs; in this deployment the log is
// the operator channel.
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
				Msg("api: job dead-lettered, human intervention expected")
		}
	}
}
