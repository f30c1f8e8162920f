package stores

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/posbridge/pkg/db/models"
	pkgerrors "github.com/angelmondragon/posbridge/pkg/errors"
)

// Repository persists the catalog of vendor business locations.
type Repository interface {
	Upsert(ctx context.Context, store *models.Store) error
	List(ctx context.Context) ([]models.Store, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, store *models.Store) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "business_location_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).
		Create(store).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "upserting store")
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	err := r.db.WithContext(ctx).
		Order("business_location_id ASC").
		Find(&stores).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "listing stores")
	}
	return stores, nil
}
