package models

import "time"

const (
	OrderStatusReceived     = "RECEIVED"
	OrderStatusInKitchen    = "IN_KITCHEN"
	OrderStatusReadyToServe = "READY_TO_SERVE"
	OrderStatusServed       = "SERVED"
	OrderStatusCancelled    = "CANCELLED"
)

const (
	OrderPaymentPending = "PENDING"
	OrderPaymentPaid    = "PAID"
	OrderPaymentFailed  = "FAILED"
)

// OrderStatuses lists the accepted status labels. Any of them may be set
// at any time by an authorized actor; only unknown labels are rejected.
var OrderStatuses = []string{
	OrderStatusReceived,
	OrderStatusInKitchen,
	OrderStatusReadyToServe,
	OrderStatusServed,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is one of the known status labels.
func ValidOrderStatus(s string) bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Order struct {
	ID                   uint        `gorm:"primaryKey" json:"id"`
	RestaurantID         uint        `gorm:"index;not null" json:"restaurant_id"`
	Restaurant           Restaurant  `gorm:"foreignKey:RestaurantID" json:"-"`
	TableID              *uint       `gorm:"index" json:"table_id,omitempty"`
	Table                *Table      `gorm:"foreignKey:TableID" json:"table,omitempty"`
	PublicToken          string      `gorm:"type:varchar(36);uniqueIndex;not null" json:"public_token"`
	Status               string      `gorm:"type:varchar(20);not null;default:'RECEIVED'" json:"status"`
	PaymentStatus        string      `gorm:"type:varchar(20);not null;default:'PENDING'" json:"payment_status"`
	TotalAmount          float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	EstimatedTimeMinutes int         `gorm:"not null;default:20" json:"estimated_time_minutes"`
	CustomerNote         string      `gorm:"type:text" json:"customer_note"`
	Items                []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}
