package models

import (
	"time"

	"gorm.io/datatypes"
)

type MenuItem struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RestaurantID uint           `gorm:"index;not null" json:"restaurant_id"`
	Restaurant   Restaurant     `gorm:"foreignKey:RestaurantID" json:"-"`
	CategoryID   *uint          `gorm:"index" json:"category_id,omitempty"`
	Category     *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	Price        float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL     string         `gorm:"type:varchar(255)" json:"image_url"`
	Tags         datatypes.JSON `json:"tags"` // e.g. ["veg", "spicy", "gluten-free"]
	IsAvailable  bool           `gorm:"not null;default:true" json:"is_available"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
