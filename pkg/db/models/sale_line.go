package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLine is one item within a sale. LineID is the vendor's saleLineId when
// present, otherwise a deterministic derivation from the parent receipt, SKU,
// and ordinal position so re-fetching the same data hits the same row.
type SaleLine struct {
	LineID             string          `gorm:"column:line_id;primaryKey"`
	Vendor             string          `gorm:"column:vendor;not null;default:'lightspeed'"`
	ReceiptID          string          `gorm:"column:receipt_id;not null;index"`
	BusinessLocationID string          `gorm:"column:business_location_id;not null"`
	SKU                *string         `gorm:"column:sku"`
	Name               *string         `gorm:"column:name"`
	Quantity           decimal.Decimal `gorm:"column:quantity;type:numeric(14,4);not null"`
	MenuListPrice      decimal.Decimal `gorm:"column:menu_list_price;type:numeric(14,4);not null"`
	DiscountAmount     decimal.Decimal `gorm:"column:discount_amount;type:numeric(14,4);not null"`
	TaxAmount          decimal.Decimal `gorm:"column:tax_amount;type:numeric(14,4);not null"`
	ServiceCharge      decimal.Decimal `gorm:"column:service_charge;type:numeric(14,4);not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table name.
func (SaleLine) TableName() string { return "sale_lines" }
