package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/angelmondragon/posbridge/internal/connections"
	"github.com/angelmondragon/posbridge/pkg/config"
	"github.com/angelmondragon/posbridge/pkg/db"
	"github.com/angelmondragon/posbridge/pkg/db/models"
	"github.com/angelmondragon/posbridge/pkg/lightspeed"
	"github.com/angelmondragon/posbridge/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "register-connection"})

	_ = godotenv.Load()

	locationID := flag.String("location", "", "vendor business location id")
	apiKey := flag.String("api-key", "", "vendor api key for this connection")
	timezone := flag.String("timezone", "", "IANA timezone for daily reconciliation; defaults to the configured default")
	idFlag := flag.String("id", "", "existing connection id to update (uuid, optional)")
	skipCheck := flag.Bool("skip-check", false, "skip the vendor connectivity check")
	flag.Parse()

	if *locationID == "" || *apiKey == "" {
		fmt.Fprintln(os.Stderr, "usage: register-connection -location <id> -api-key <key> [-timezone <tz>] [-id <uuid>]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "register-connection",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	tz := *timezone
	if tz == "" {
		tz = cfg.Sync.DefaultTimezone
	}

	id := uuid.New()
	if *idFlag != "" {
		id, err = uuid.Parse(*idFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -id: %v\n", err)
			os.Exit(1)
		}
	}

	if !*skipCheck {
		vendorCfg := cfg.Lightspeed
		vendorCfg.APIKey = *apiKey
		vendorClient, err := lightspeed.NewClient(vendorCfg, logg)
		if err != nil {
			logg.Error(ctx, "failed to build vendor client", err)
			os.Exit(1)
		}
		if !vendorClient.TestConnection(ctx) {
			fmt.Fprintln(os.Stderr, "vendor connectivity check failed; re-run with -skip-check to register anyway")
			os.Exit(1)
		}
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	conn := &models.PosConnection{
		ID:                 id,
		BusinessLocationID: *locationID,
		APIKey:             *apiKey,
		Timezone:           tz,
		Active:             true,
	}
	if err := connections.NewRepository(dbClient.DB()).Upsert(ctx, conn); err != nil {
		logg.Error(ctx, "failed to register connection", err)
		os.Exit(1)
	}

	fmt.Printf("connection registered: id=%s location=%s timezone=%s\n", conn.ID, conn.BusinessLocationID, conn.Timezone)
}
