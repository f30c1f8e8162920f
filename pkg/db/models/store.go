package models

import "time"

// Store is a vendor business location discovered via the businesses endpoint.
type Store struct {
	BusinessLocationID string    `gorm:"column:business_location_id;primaryKey"`
	Name               string    `gorm:"column:name;not null"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table name.
func (Store) TableName() string { return "stores" }
