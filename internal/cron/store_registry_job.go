package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/posbridge/pkg/logger"
)

// StoreRegistryJobParams configures the store catalog refresh job.
type StoreRegistryJobParams struct {
	Logger    *logger.Logger
	Refresher storeRefresher
}

type storeRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// NewStoreRegistryJob constructs the job that keeps the local store catalog in
// step with the vendor's business listing.
func NewStoreRegistryJob(params StoreRegistryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Refresher == nil {
		return nil, fmt.Errorf("store service required")
	}
	return &storeRegistryJob{logg: params.Logger, refresher: params.Refresher}, nil
}

type storeRegistryJob struct {
	logg      *logger.Logger
	refresher storeRefresher
}

func (j *storeRegistryJob) Name() string { return "store-registry" }

func (j *storeRegistryJob) Run(ctx context.Context) error {
	stored, err := j.refresher.Refresh(ctx)
	if err != nil {
		return err
	}
	j.logg.Info(ctx, fmt.Sprintf("store registry job stored %d locations", stored))
	return nil
}
