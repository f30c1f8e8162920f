package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/posbridge/internal/salesync"
	"github.com/angelmondragon/posbridge/pkg/logger"
)

// DailySyncJobParams configures the daily reconciliation job.
type DailySyncJobParams struct {
	Logger *logger.Logger
	Syncer dailySyncRunner
}

type dailySyncRunner interface {
	RunDailySync(ctx context.Context) (*salesync.BatchReport, error)
}

// NewDailySyncJob constructs the job that reconciles yesterday's finalized
// sales across every active connection.
func NewDailySyncJob(params DailySyncJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Syncer == nil {
		return nil, fmt.Errorf("sync service required")
	}
	return &dailySyncJob{logg: params.Logger, syncer: params.Syncer}, nil
}

type dailySyncJob struct {
	logg   *logger.Logger
	syncer dailySyncRunner
}

func (j *dailySyncJob) Name() string { return "daily-sync" }

func (j *dailySyncJob) Run(ctx context.Context) error {
	batch, err := j.syncer.RunDailySync(ctx)
	if err != nil {
		return err
	}
	j.logg.Info(ctx, fmt.Sprintf("daily sync batch: %d succeeded, %d failed", len(batch.Succeeded), len(batch.Failed)))

	var errs []error
	for id, reason := range batch.Failed {
		errs = append(errs, fmt.Errorf("connection %s: %s", id, reason))
	}
	return multierr.Combine(errs...)
}
