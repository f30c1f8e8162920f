package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/posbridge/internal/connections"
	"github.com/angelmondragon/posbridge/internal/cron"
	"github.com/angelmondragon/posbridge/internal/salesync"
	"github.com/angelmondragon/posbridge/internal/stores"
	"github.com/angelmondragon/posbridge/pkg/config"
	"github.com/angelmondragon/posbridge/pkg/db"
	"github.com/angelmondragon/posbridge/pkg/lightspeed"
	"github.com/angelmondragon/posbridge/pkg/logger"
	"github.com/angelmondragon/posbridge/pkg/metrics"
	"github.com/angelmondragon/posbridge/pkg/migrate"
	"github.com/angelmondragon/posbridge/pkg/redis"
)

const lockKeyFormat = "posbridge:sync-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "sync-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "sync-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	vendorClient, err := lightspeed.NewClient(cfg.Lightspeed, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build vendor client", err)
		os.Exit(1)
	}

	syncMetrics := metrics.NewSyncJobMetrics(prometheus.DefaultRegisterer)

	syncService := salesync.NewService(salesync.ServiceParams{
		Logger:          logg,
		Gateway:         vendorClient,
		Sales:           salesync.NewRepository(dbClient.DB()),
		Connections:     connections.NewRepository(dbClient.DB()),
		Metrics:         syncMetrics,
		MaxConcurrent:   cfg.Sync.MaxConcurrentConns,
		InitialLookback: cfg.Sync.InitialLookback,
	})
	storeService := stores.NewService(logg, vendorClient, stores.NewRepository(dbClient.DB()))

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Sync.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync lock", err)
		os.Exit(1)
	}

	storeJob, err := cron.NewStoreRegistryJob(cron.StoreRegistryJobParams{
		Logger:    logg,
		Refresher: storeService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to construct store registry job", err)
		os.Exit(1)
	}
	incrementalJob, err := cron.NewIncrementalSyncJob(cron.IncrementalSyncJobParams{
		Logger: logg,
		Syncer: syncService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to construct incremental sync job", err)
		os.Exit(1)
	}
	dailyJob, err := cron.NewDailySyncJob(cron.DailySyncJobParams{
		Logger: logg,
		Syncer: syncService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to construct daily sync job", err)
		os.Exit(1)
	}
	registry := cron.NewRegistry(storeJob, incrementalJob, dailyJob)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  syncMetrics,
		Interval: cfg.Sync.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduler", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting sync worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "sync worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "sync worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
