package models

import "time"

type OrderItem struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	OrderID    uint     `gorm:"index;not null" json:"order_id"`
	Order      Order    `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID uint     `gorm:"not null" json:"menu_item_id"`
	MenuItem   MenuItem `gorm:"foreignKey:MenuItemID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu_item"`
	Quantity   int      `gorm:"not null" json:"quantity"`
	// PriceAtTime is the menu item price copied at order creation. Later
	// price edits on the menu item must not change placed orders.
	PriceAtTime float64   `gorm:"type:decimal(10,2);not null" json:"price_at_time"`
	CreatedAt   time.Time `json:"created_at"`
}
