package models

import "time"

const (
	SubscriptionStatusActive    = "ACTIVE"
	SubscriptionStatusExpired   = "EXPIRED"
	SubscriptionStatusCancelled = "CANCELLED"
)

// Subscription links a restaurant to a plan. A restaurant accumulates
// subscription rows over time; the active one is the newest row with
// status ACTIVE and an end date in the future.
type Subscription struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	RestaurantID     uint      `gorm:"index;not null" json:"restaurant_id"`
	Restaurant       Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`
	PlanID           uint      `gorm:"not null" json:"plan_id"`
	Plan             Plan      `gorm:"foreignKey:PlanID" json:"plan"`
	Status           string    `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	StartDate        time.Time `gorm:"not null" json:"start_date"`
	EndDate          time.Time `gorm:"not null" json:"end_date"`
	PaymentReference string    `gorm:"type:varchar(255)" json:"payment_reference"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsValid reports whether the subscription is currently active.
func (s *Subscription) IsValid() bool {
	return s.Status == SubscriptionStatusActive && !s.EndDate.Before(time.Now())
}
