package models

import "time"

// VendorLightspeed is the only vendor this connector speaks today.
const VendorLightspeed = "lightspeed"

// Sale is a normalized sale header keyed by (vendor, receipt_id). Re-ingesting
// the same receipt updates the mutable fields instead of creating a second row.
type Sale struct {
	Vendor             string     `gorm:"column:vendor;primaryKey"`
	ReceiptID          string     `gorm:"column:receipt_id;primaryKey"`
	BusinessLocationID string     `gorm:"column:business_location_id;not null;index"`
	TimeClosed         *time.Time `gorm:"column:time_closed"`
	Cancelled          bool       `gorm:"column:cancelled;not null;default:false"`
	Currency           string     `gorm:"column:currency;not null;default:'USD'"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table name.
func (Sale) TableName() string { return "sales" }
