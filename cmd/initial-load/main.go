package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/angelmondragon/posbridge/internal/connections"
	"github.com/angelmondragon/posbridge/internal/salesync"
	"github.com/angelmondragon/posbridge/pkg/config"
	"github.com/angelmondragon/posbridge/pkg/db"
	"github.com/angelmondragon/posbridge/pkg/lightspeed"
	"github.com/angelmondragon/posbridge/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "initial-load"})

	_ = godotenv.Load()

	connectionID := flag.String("connection", "", "pos connection id (uuid)")
	fromFlag := flag.String("from", "", "window start, RFC3339 (e.g. 2026-01-01T00:00:00Z)")
	toFlag := flag.String("to", "", "window end, RFC3339; defaults to now")
	flag.Parse()

	if *connectionID == "" || *fromFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: initial-load -connection <uuid> -from <rfc3339> [-to <rfc3339>]")
		os.Exit(1)
	}
	id, err := uuid.Parse(*connectionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -connection: %v\n", err)
		os.Exit(1)
	}
	from, err := time.Parse(time.RFC3339, *fromFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -from: %v\n", err)
		os.Exit(1)
	}
	to := time.Now().UTC()
	if *toFlag != "" {
		to, err = time.Parse(time.RFC3339, *toFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -to: %v\n", err)
			os.Exit(1)
		}
	}
	if !from.Before(to) {
		fmt.Fprintln(os.Stderr, "-from must be before -to")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "initial-load",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	vendorClient, err := lightspeed.NewClient(cfg.Lightspeed, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build vendor client", err)
		os.Exit(1)
	}

	service := salesync.NewService(salesync.ServiceParams{
		Logger:          logg,
		Gateway:         vendorClient,
		Sales:           salesync.NewRepository(dbClient.DB()),
		Connections:     connections.NewRepository(dbClient.DB()),
		MaxConcurrent:   cfg.Sync.MaxConcurrentConns,
		InitialLookback: cfg.Sync.InitialLookback,
	})

	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)
	report, err := service.InitialLoad(ctx, id, from, to)
	if err != nil {
		logg.Error(ctx, "initial load failed", err)
		os.Exit(1)
	}

	fmt.Printf("initial load complete: fetched=%d stored_sales=%d stored_lines=%d failed=%d defects=%d\n",
		report.Fetched, report.StoredSales, report.StoredLines, report.Failed, report.Defects)
}
