package models

import "time"

// Table carries the opaque token embedded in the public ordering URL.
type Table struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"uniqueIndex:idx_tables_restaurant_name;not null" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`
	Name         string     `gorm:"type:varchar(100);uniqueIndex:idx_tables_restaurant_name;not null" json:"name"`
	Token        string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"token"`
	Capacity     int        `gorm:"not null;default:4" json:"capacity"`
	QRCodeURL    string     `gorm:"type:text" json:"qr_code_url"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
