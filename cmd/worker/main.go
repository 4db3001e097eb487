package main

import (
	"context"
	"os"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/cityexplorer/internal/app"
	"github.com/briangreenhill/cityexplorer/internal/config"
	"github.com/briangreenhill/cityexplorer/internal/db"
	"github.com/briangreenhill/cityexplorer/internal/jobs"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "worker").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config error")
	}
	if !cfg.HasQueue() {
		logger.Fatal().Msg("REDIS_ADDR is required for the worker")
	}
	logger = logger.Level(cfg.Level())
	zerolog.DefaultContextLogger = &logger

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to connect to database")
	}
	defer pool.Close()
	q := db.New(pool)
	if err := q.Migrate(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("migrate error")
	}

	services, err := app.New(cfg, q)
	if err != nil {
		logger.Fatal().Err(err).Msg("upstream config error")
	}

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
		Queues: map[string]int{
			jobs.QueueWarm: 1,
		},
		BaseContext: func() context.Context {
			return logger.WithContext(context.Background())
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Warn().Err(err).Str("task", task.Type()).Msg("[asynq] task failed")
		}),
	})

	logger.Info().Int("concurrency", cfg.WorkerConcurrency).Msg("worker running")
	if err := srv.Run(jobs.NewServeMux(services.Registry)); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped")
	}
}
