// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/briangreenhill/cityexplorer/internal/app"
	"github.com/briangreenhill/cityexplorer/internal/config"
	"github.com/briangreenhill/cityexplorer/internal/db"
	"github.com/briangreenhill/cityexplorer/internal/http/routes"
	"github.com/briangreenhill/cityexplorer/internal/jobs"
	"github.com/briangreenhill/cityexplorer/internal/metrics"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config error")
	}
	logger = logger.Level(cfg.Level())
	zerolog.DefaultContextLogger = &logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("db error")
	}
	defer pool.Close()
	queries := db.New(pool)
	if err := queries.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("migrate error")
	}

	services, err := app.New(cfg, queries)
	if err != nil {
		logger.Fatal().Err(err).Msg("upstream config error")
	}

	// Warm-cache jobs
	if cfg.HasQueue() {
		client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer client.Close()
		services.Resolver.Notify(jobs.NewEnqueuer(client))
		logger.Info().Str("redis", cfg.RedisAddr).Msg("warm-cache jobs enabled")
	}

	// Router / server
	s := routes.New(routes.ServerOptions{
		Locations: services.Resolver,
		Weather:   services.Weather,
		Movies:    services.Movies,
		Events:    services.Events,
		Metrics:   metrics.Handler(),
	})
	h := hlog.NewHandler(logger)(s.Router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}()

	logger.Info().Str("port", cfg.Port).Dur("stale_after", cfg.StaleAfter).Msg("starting app")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("server stopped")
}
