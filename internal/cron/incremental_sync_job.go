package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/posbridge/internal/salesync"
	"github.com/angelmondragon/posbridge/pkg/logger"
)

// IncrementalSyncJobParams configures the watermark-driven sync job.
type IncrementalSyncJobParams struct {
	Logger *logger.Logger
	Syncer incrementalSyncRunner
}

type incrementalSyncRunner interface {
	RunIncrementalSync(ctx context.Context) (*salesync.BatchReport, error)
}

// NewIncrementalSyncJob constructs the job that pulls each connection's window
// since its last watermark.
func NewIncrementalSyncJob(params IncrementalSyncJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Syncer == nil {
		return nil, fmt.Errorf("sync service required")
	}
	return &incrementalSyncJob{logg: params.Logger, syncer: params.Syncer}, nil
}

type incrementalSyncJob struct {
	logg   *logger.Logger
	syncer incrementalSyncRunner
}

func (j *incrementalSyncJob) Name() string { return "incremental-sync" }

func (j *incrementalSyncJob) Run(ctx context.Context) error {
	batch, err := j.syncer.RunIncrementalSync(ctx)
	if err != nil {
		return err
	}
	j.logg.Info(ctx, fmt.Sprintf("incremental sync batch: %d succeeded, %d failed", len(batch.Succeeded), len(batch.Failed)))

	var errs []error
	for id, reason := range batch.Failed {
		errs = append(errs, fmt.Errorf("connection %s: %s", id, reason))
	}
	return multierr.Combine(errs...)
}
