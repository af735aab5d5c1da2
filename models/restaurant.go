package models

import "time"

// Restaurant is the tenant root: every table, menu item, order and payment
// hangs off exactly one restaurant, and each account owns at most one.
type Restaurant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"uniqueIndex;not null" json:"owner_id"`
	Owner       User      `gorm:"foreignKey:OwnerID" json:"-"`
	PublicID    string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"public_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Address     string    `gorm:"type:text" json:"address"`
	City        string    `gorm:"type:varchar(100)" json:"city"`
	Country     string    `gorm:"type:varchar(100)" json:"country"`
	Phone       string    `gorm:"type:varchar(20)" json:"phone"`
	Email       string    `gorm:"type:varchar(255)" json:"email"`
	LogoURL     string    `gorm:"type:varchar(255)" json:"logo_url"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
