package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/posbridge/internal/salesync"
	"github.com/angelmondragon/posbridge/pkg/logger"
)

func TestIncrementalSyncJobPropagatesBatchError(t *testing.T) {
	syncer := &fakeBatchSyncer{err: errors.New("listing connections failed")}
	job, err := NewIncrementalSyncJob(IncrementalSyncJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Syncer: syncer,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected batch error to propagate")
	}
}

func TestIncrementalSyncJobSucceedsOnCleanBatch(t *testing.T) {
	syncer := &fakeBatchSyncer{incremental: &salesync.BatchReport{
		Succeeded: []uuid.UUID{uuid.New()},
		Failed:    map[uuid.UUID]string{},
	}}
	job, err := NewIncrementalSyncJob(IncrementalSyncJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Syncer: syncer,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
}
