package models

import (
	"time"

	"github.com/google/uuid"
)

// PosConnection is one configured link to a vendor account. The last-sync
// watermark only moves forward over the connection's lifetime.
type PosConnection struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessLocationID string     `gorm:"column:business_location_id;not null"`
	APIKey             string     `gorm:"column:api_key;not null"`
	Timezone           string     `gorm:"column:timezone;not null;default:'UTC'"`
	Active             bool       `gorm:"column:active;not null;default:true"`
	LastSync           *time.Time `gorm:"column:last_sync"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table name.
func (PosConnection) TableName() string { return "pos_connections" }

// Location returns the connection's reporting timezone, defaulting to UTC when
// the stored name is empty or unknown.
func (c PosConnection) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
