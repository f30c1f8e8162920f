package stores

import (
	"context"
	"fmt"

	"github.com/angelmondragon/posbridge/pkg/db/models"
	"github.com/angelmondragon/posbridge/pkg/lightspeed"
	"github.com/angelmondragon/posbridge/pkg/logger"
)

// BusinessGateway is the slice of the vendor client the store registry needs.
type BusinessGateway interface {
	FetchBusinesses(ctx context.Context) ([]lightspeed.BusinessLocation, error)
}

// Service keeps the local store catalog in step with the vendor's business
// location listing.
type Service struct {
	logg    *logger.Logger
	gateway BusinessGateway
	repo    Repository
}

func NewService(logg *logger.Logger, gateway BusinessGateway, repo Repository) *Service {
	return &Service{logg: logg, gateway: gateway, repo: repo}
}

// Refresh pulls the vendor's business locations and upserts each one. A store
// that fails to persist is logged and skipped; the rest still land. It returns
// how many stores were written.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	locations, err := s.gateway.FetchBusinesses(ctx)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, location := range locations {
		if location.ID == "" {
			s.logg.Warn(ctx, "skipping business location without an id")
			continue
		}
		store := &models.Store{BusinessLocationID: location.ID, Name: location.Name}
		if err := s.repo.Upsert(ctx, store); err != nil {
			s.logg.Error(ctx, fmt.Sprintf("storing business location %s", location.ID), err)
			continue
		}
		stored++
	}
	s.logg.Info(ctx, fmt.Sprintf("store registry refreshed: %d of %d locations stored", stored, len(locations)))
	return stored, nil
}
