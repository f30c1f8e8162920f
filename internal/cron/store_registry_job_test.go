package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/posbridge/pkg/logger"
)

type fakeRefresher struct {
	stored int
	err    error
	calls  int
}

func (f *fakeRefresher) Refresh(context.Context) (int, error) {
	f.calls++
	return f.stored, f.err
}

func TestStoreRegistryJobRefreshes(t *testing.T) {
	refresher := &fakeRefresher{stored: 3}
	job, err := NewStoreRegistryJob(StoreRegistryJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "cron-test"}),
		Refresher: refresher,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if refresher.calls != 1 {
		t.Fatalf("expected one refresh, got %d", refresher.calls)
	}
}

func TestStoreRegistryJobPropagatesError(t *testing.T) {
	refresher := &fakeRefresher{err: errors.New("vendor unreachable")}
	job, err := NewStoreRegistryJob(StoreRegistryJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "cron-test"}),
		Refresher: refresher,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error to propagate")
	}
}
