package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/clubops/clubfinance/internal/backfill"
	"github.com/clubops/clubfinance/pkg/calendar"
	"github.com/clubops/clubfinance/pkg/config"
	"github.com/clubops/clubfinance/pkg/db"
	pkgerrors "github.com/clubops/clubfinance/pkg/errors"
	"github.com/clubops/clubfinance/pkg/logger"
	"github.com/clubops/clubfinance/pkg/metrics"
	"github.com/clubops/clubfinance/pkg/migrate"
	"github.com/clubops/clubfinance/pkg/redis"
)

const serviceName = "finance-backfill"

func main() {
	os.Exit(run())
}

func run() int {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		return 1
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	opts, err := parseFlags(os.Args[1:], cfg.Backfill.DefaultLimit, os.Stderr)
	if err != nil {
		logg.Error(context.Background(), "invalid arguments", err)
		return pkgerrors.MetadataFor(pkgerrors.CodeValidation).ExitCode
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		return 1
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		return 1
	}

	lock, closeLock, err := buildLock(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to create backfill lock", err)
		return 1
	}
	defer closeLock()

	registry := prometheus.NewRegistry()
	service, err := buildService(wiring{
		Logger:          logg,
		DB:              dbClient,
		Lock:            lock,
		Registerer:      registry,
		Clock:           calendar.SystemClock,
		DueBusinessDays: cfg.Backfill.DueBusinessDays,
	})
	if err != nil {
		logg.Error(ctx, "failed to create backfill service", err)
		return 1
	}

	report, runErr := service.Run(ctx, opts)
	for _, line := range report.Lines() {
		fmt.Fprintln(os.Stdout, line)
	}

	if err := metrics.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.JobName, registry); err != nil {
		logg.Error(ctx, "failed to push backfill metrics", err)
	}

	if runErr != nil {
		logg.Error(ctx, "backfill failed", runErr)
		return pkgerrors.MetadataFor(pkgerrors.CodeOf(runErr)).ExitCode
	}
	return 0
}

// buildLock returns the Redis run lock when Redis is configured and a no-op
// lock otherwise. The returned func closes the Redis client.
func buildLock(ctx context.Context, cfg *config.Config, logg *logger.Logger) (backfill.Lock, func(), error) {
	if !cfg.Redis.Enabled() {
		logg.Info(ctx, "redis not configured; running without an exclusive lock")
		return backfill.NoopLock{}, func() {}, nil
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap redis: %w", err)
	}
	closeFn := func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}

	lock, err := backfill.NewRedisLock(redisClient, redisClient.LockKey("backfill"), cfg.Backfill.LockTTL)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return lock, closeFn, nil
}
