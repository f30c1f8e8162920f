package salesync

import (
	"context"
	stdErrors "errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/posbridge/pkg/db/models"
	pkgerrors "github.com/angelmondragon/posbridge/pkg/errors"
)

// Repository is the idempotent store for normalized sales data. Every write is
// an upsert on the entity's natural key: re-ingesting the same record
// overwrites mutable fields without creating a duplicate row.
type Repository interface {
	UpsertSale(ctx context.Context, sale *models.Sale) error
	UpsertSaleLine(ctx context.Context, line *models.SaleLine) error
	UpsertDailySales(ctx context.Context, daily *models.DailySales) error
	GetDailySales(ctx context.Context, locationID, date string) (*models.DailySales, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a sales repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) UpsertSale(ctx context.Context, sale *models.Sale) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "vendor"}, {Name: "receipt_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"time_closed", "cancelled", "currency", "updated_at",
			}),
		}).
		Create(sale).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "upserting sale")
	}
	return nil
}

func (r *repository) UpsertSaleLine(ctx context.Context, line *models.SaleLine) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "line_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"quantity", "menu_list_price", "discount_amount", "tax_amount", "service_charge", "updated_at",
			}),
		}).
		Create(line).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "upserting sale line")
	}
	return nil
}

func (r *repository) UpsertDailySales(ctx context.Context, daily *models.DailySales) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "business_location_id"}, {Name: "business_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"data_complete", "total_sales", "updated_at",
			}),
		}).
		Create(daily).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "upserting daily sales")
	}
	return nil
}

func (r *repository) GetDailySales(ctx context.Context, locationID, date string) (*models.DailySales, error) {
	var daily models.DailySales
	err := r.db.WithContext(ctx).
		Where("business_location_id = ? AND business_date = ?", locationID, date).
		First(&daily).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "daily sales not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "reading daily sales")
	}
	return &daily, nil
}
