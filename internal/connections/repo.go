package connections

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/posbridge/pkg/db/models"
	pkgerrors "github.com/angelmondragon/posbridge/pkg/errors"
)

// Repository defines persistence for vendor connections and their watermarks.
type Repository interface {
	ListActive(ctx context.Context) ([]models.PosConnection, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PosConnection, error)
	Upsert(ctx context.Context, conn *models.PosConnection) error
	GetWatermark(ctx context.Context, id uuid.UUID) (*time.Time, error)
	SetWatermark(ctx context.Context, id uuid.UUID, ts time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a connections repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListActive(ctx context.Context) ([]models.PosConnection, error) {
	var conns []models.PosConnection
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&conns).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "listing active connections")
	}
	return conns, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PosConnection, error) {
	var conn models.PosConnection
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&conn).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "connection not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "finding connection")
	}
	return &conn, nil
}

func (r *repository) Upsert(ctx context.Context, conn *models.PosConnection) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"business_location_id", "api_key", "timezone", "active", "updated_at",
			}),
		}).
		Create(conn).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "upserting connection")
	}
	return nil
}

func (r *repository) GetWatermark(ctx context.Context, id uuid.UUID) (*time.Time, error) {
	conn, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return conn.LastSync, nil
}

// SetWatermark advances last_sync for the connection. The condition keeps the
// watermark monotonically non-decreasing even under concurrent or replayed runs.
func (r *repository) SetWatermark(ctx context.Context, id uuid.UUID, ts time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.PosConnection{}).
		Where("id = ? AND (last_sync IS NULL OR last_sync <= ?)", id, ts).
		Updates(map[string]any{"last_sync": ts, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, result.Error, "advancing watermark")
	}
	return nil
}
