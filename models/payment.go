package models

import "time"

const (
	PaymentStatusPending       = "PENDING"
	PaymentStatusCompleted     = "COMPLETED"
	PaymentStatusFailed        = "FAILED"
	PaymentStatusRefunded      = "REFUNDED"
	PaymentStatusRefundPending = "REFUND_PENDING"
)

// Payment tracks one gateway transaction per order.
type Payment struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	OrderID      uint       `gorm:"uniqueIndex;not null" json:"order_id"`
	Order        Order      `gorm:"foreignKey:OrderID" json:"-"`
	RestaurantID uint       `gorm:"index;not null" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`
	Status       string     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Amount       float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency     string     `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`

	// Gateway identifiers: SessionID is the checkout session, GatewayReference
	// the payment intent / charge recorded once the session is paid.
	SessionID        string `gorm:"type:varchar(255);index" json:"session_id"`
	GatewayReference string `gorm:"type:varchar(255);index" json:"gateway_reference"`

	RefundAmount           float64    `gorm:"type:decimal(10,2);not null;default:0.00" json:"refund_amount"`
	RefundReason           string     `gorm:"type:text" json:"refund_reason"`
	RefundGatewayReference string     `gorm:"type:varchar(255)" json:"refund_gateway_reference"`
	RefundedAt             *time.Time `json:"refunded_at,omitempty"`

	IPAddress string    `gorm:"type:varchar(45)" json:"-"`
	UserAgent string    `gorm:"type:varchar(500)" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsRefundable reports whether any refundable balance remains.
func (p *Payment) IsRefundable() bool {
	return p.Status == PaymentStatusCompleted && p.Amount-p.RefundAmount > 0
}

// RemainingRefundable returns the balance still open for refunds.
func (p *Payment) RemainingRefundable() float64 {
	return p.Amount - p.RefundAmount
}
