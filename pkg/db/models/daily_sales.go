package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySales is the per-(location, business date) aggregate reported by the
// vendor's daily endpoint. BusinessDate is the vendor's YYYY-MM-DD string.
type DailySales struct {
	BusinessLocationID string          `gorm:"column:business_location_id;primaryKey"`
	BusinessDate       string          `gorm:"column:business_date;primaryKey"`
	DataComplete       bool            `gorm:"column:data_complete;not null;default:false"`
	TotalSales         decimal.Decimal `gorm:"column:total_sales;type:numeric(14,4);not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table name.
func (DailySales) TableName() string { return "daily_sales" }
