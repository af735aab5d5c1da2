package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/models"
)

// ErrNoActiveSubscription is returned by quota checks when the restaurant has
// no subscription with status ACTIVE and an end date in the future.
var ErrNoActiveSubscription = errors.New("no active subscription")

// PlanService enforces plan limits against live row counts. Checks are
// computed at call time; nothing here is cached.
type PlanService struct {
	DB *gorm.DB
}

func NewPlanService(db *gorm.DB) *PlanService {
	return &PlanService{DB: db}
}

// ActiveSubscription returns the restaurant's current subscription with its
// plan preloaded, or ErrNoActiveSubscription. When several rows qualify the
// newest wins; single-active is a convention, not a constraint.
func (s *PlanService) ActiveSubscription(restaurantID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.DB.Preload("Plan").
		Where("restaurant_id = ? AND status = ? AND end_date >= ?",
			restaurantID, models.SubscriptionStatusActive, time.Now()).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}
	return &sub, nil
}

// IsSubscriptionActive reports whether the restaurant may serve customers.
func (s *PlanService) IsSubscriptionActive(restaurantID uint) bool {
	_, err := s.ActiveSubscription(restaurantID)
	return err == nil
}

// CanAddTable checks the table quota. The returned message carries the plan
// limit when the check fails.
func (s *PlanService) CanAddTable(restaurantID uint) (bool, string, error) {
	sub, err := s.ActiveSubscription(restaurantID)
	if err != nil {
		return false, "", err
	}

	count, err := s.countTables(restaurantID)
	if err != nil {
		return false, "", err
	}
	if count >= int64(sub.Plan.MaxTables) {
		return false, fmt.Sprintf("plan limit reached: %d tables allowed", sub.Plan.MaxTables), nil
	}
	return true, "", nil
}

// CanAddMenuItem checks the menu item quota.
func (s *PlanService) CanAddMenuItem(restaurantID uint) (bool, string, error) {
	sub, err := s.ActiveSubscription(restaurantID)
	if err != nil {
		return false, "", err
	}

	count, err := s.countMenuItems(restaurantID)
	if err != nil {
		return false, "", err
	}
	if count >= int64(sub.Plan.MaxMenuItems) {
		return false, fmt.Sprintf("plan limit reached: %d menu items allowed", sub.Plan.MaxMenuItems), nil
	}
	return true, "", nil
}

// RemainingTables returns max(0, limit - count); zero without a subscription.
func (s *PlanService) RemainingTables(restaurantID uint) (int, error) {
	sub, err := s.ActiveSubscription(restaurantID)
	if err != nil {
		if errors.Is(err, ErrNoActiveSubscription) {
			return 0, nil
		}
		return 0, err
	}
	count, err := s.countTables(restaurantID)
	if err != nil {
		return 0, err
	}
	remaining := sub.Plan.MaxTables - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// RemainingMenuItems returns max(0, limit - count); zero without a subscription.
func (s *PlanService) RemainingMenuItems(restaurantID uint) (int, error) {
	sub, err := s.ActiveSubscription(restaurantID)
	if err != nil {
		if errors.Is(err, ErrNoActiveSubscription) {
			return 0, nil
		}
		return 0, err
	}
	count, err := s.countMenuItems(restaurantID)
	if err != nil {
		return 0, err
	}
	remaining := sub.Plan.MaxMenuItems - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// HasFeature reports whether the active plan enables a feature flag.
// Restaurants without an active subscription have no features.
func (s *PlanService) HasFeature(restaurantID uint, feature string) bool {
	sub, err := s.ActiveSubscription(restaurantID)
	if err != nil {
		return false
	}
	enabled, ok := sub.Plan.Features[feature].(bool)
	return ok && enabled
}

// PlanInfo is the dashboard quota/usage projection.
type PlanInfo struct {
	Status             string                 `json:"status"`
	Plan               map[string]interface{} `json:"plan"`
	EndDate            *time.Time             `json:"end_date"`
	TablesUsed         int64                  `json:"tables_used"`
	TablesAvailable    int                    `json:"tables_available"`
	MenuItemsUsed      int64                  `json:"menu_items_used"`
	MenuItemsAvailable int                    `json:"menu_items_available"`
	UsagePercent       map[string]float64     `json:"usage_percent"`
}

// GetPlanInfo assembles the plan usage report for a restaurant.
func (s *PlanService) GetPlanInfo(restaurantID uint) (*PlanInfo, error) {
	sub, err := s.ActiveSubscription(restaurantID)
	if err != nil {
		if errors.Is(err, ErrNoActiveSubscription) {
			return &PlanInfo{
				Status:       "no_subscription",
				Plan:         nil,
				UsagePercent: map[string]float64{},
			}, nil
		}
		return nil, err
	}

	tables, err := s.countTables(restaurantID)
	if err != nil {
		return nil, err
	}
	items, err := s.countMenuItems(restaurantID)
	if err != nil {
		return nil, err
	}

	return &PlanInfo{
		Status: sub.Status,
		Plan: map[string]interface{}{
			"id":             sub.Plan.ID,
			"name":           sub.Plan.Name,
			"price":          sub.Plan.Price,
			"billing_period": sub.Plan.BillingPeriod,
			"features":       sub.Plan.Features,
		},
		EndDate:            &sub.EndDate,
		TablesUsed:         tables,
		TablesAvailable:    sub.Plan.MaxTables,
		MenuItemsUsed:      items,
		MenuItemsAvailable: sub.Plan.MaxMenuItems,
		UsagePercent: map[string]float64{
			"tables":     usagePercent(tables, sub.Plan.MaxTables),
			"menu_items": usagePercent(items, sub.Plan.MaxMenuItems),
		},
	}, nil
}

func (s *PlanService) countTables(restaurantID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Table{}).Where("restaurant_id = ?", restaurantID).Count(&count).Error
	return count, err
}

func (s *PlanService) countMenuItems(restaurantID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.MenuItem{}).Where("restaurant_id = ?", restaurantID).Count(&count).Error
	return count, err
}

func usagePercent(used int64, limit int) float64 {
	if limit <= 0 {
		return 0
	}
	return math.Round(float64(used)/float64(limit)*1000) / 10
}
