package cron

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/posbridge/internal/salesync"
	"github.com/angelmondragon/posbridge/pkg/logger"
)

type fakeBatchSyncer struct {
	daily       *salesync.BatchReport
	incremental *salesync.BatchReport
	err         error
}

func (f *fakeBatchSyncer) RunDailySync(context.Context) (*salesync.BatchReport, error) {
	return f.daily, f.err
}

func (f *fakeBatchSyncer) RunIncrementalSync(context.Context) (*salesync.BatchReport, error) {
	return f.incremental, f.err
}

func TestDailySyncJobReportsConnectionFailures(t *testing.T) {
	brokenID := uuid.New()
	syncer := &fakeBatchSyncer{daily: &salesync.BatchReport{
		Succeeded: []uuid.UUID{uuid.New()},
		Failed:    map[uuid.UUID]string{brokenID: "vendor unreachable"},
	}}
	job, err := NewDailySyncJob(DailySyncJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Syncer: syncer,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	runErr := job.Run(context.Background())
	if runErr == nil {
		t.Fatal("expected error when a connection failed")
	}
	if !strings.Contains(runErr.Error(), brokenID.String()) {
		t.Fatalf("error should name the broken connection: %v", runErr)
	}
}

func TestDailySyncJobSucceedsOnCleanBatch(t *testing.T) {
	syncer := &fakeBatchSyncer{daily: &salesync.BatchReport{
		Succeeded: []uuid.UUID{uuid.New(), uuid.New()},
		Failed:    map[uuid.UUID]string{},
	}}
	job, err := NewDailySyncJob(DailySyncJobParams{
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

func TestDailySyncJobRequiresSyncer(t *testing.T) {
	_, err := NewDailySyncJob(DailySyncJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
	})
	if err == nil {
		t.Fatal("expected error without sync service")
	}
}
