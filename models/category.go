package models

import "time"

type Category struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"uniqueIndex:idx_categories_restaurant_name;not null" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`
	Name         string     `gorm:"type:varchar(100);uniqueIndex:idx_categories_restaurant_name;not null" json:"name"`
	SortOrder    int        `gorm:"not null;default:0" json:"sort_order"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
