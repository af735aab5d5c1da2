package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	BillingPeriodMonth = "MONTH"
	BillingPeriodYear  = "YEAR"
)

// Plan is immutable reference data; quota checks compare live row counts
// against MaxTables / MaxMenuItems.
type Plan struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	Name          string            `gorm:"type:varchar(100);not null" json:"name"`
	Description   string            `gorm:"type:text" json:"description"`
	Price         float64           `gorm:"type:decimal(10,2);not null" json:"price"`
	BillingPeriod string            `gorm:"type:varchar(10);not null;default:'MONTH'" json:"billing_period"`
	MaxTables     int               `gorm:"not null;default:10" json:"max_tables"`
	MaxMenuItems  int               `gorm:"not null;default:100" json:"max_menu_items"`
	Features      datatypes.JSONMap `json:"features"` // e.g. {"qr_ordering": true, "live_dashboard": true}
	IsActive      bool              `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
