package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/models"
)

func setupPlanTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Restaurant{}, &models.Plan{}, &models.Subscription{},
		&models.Table{}, &models.Category{}, &models.MenuItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedRestaurantWithPlan(db *gorm.DB, maxTables, maxMenuItems int, features datatypes.JSONMap) (*models.Restaurant, *models.Plan) {
	user := models.User{Name: "Owner", Email: "owner@example.com", Password: "x", Role: models.RoleOwner}
	db.Create(&user)
	restaurant := models.Restaurant{OwnerID: user.ID, PublicID: "pub-1", Name: "Testaurant", IsActive: true}
	db.Create(&restaurant)

	plan := models.Plan{
		Name:          "Standard",
		Price:         29.0,
		BillingPeriod: models.BillingPeriodMonth,
		MaxTables:     maxTables,
		MaxMenuItems:  maxMenuItems,
		Features:      features,
		IsActive:      true,
	}
	db.Create(&plan)

	sub := models.Subscription{
		RestaurantID: restaurant.ID,
		PlanID:       plan.ID,
		Status:       models.SubscriptionStatusActive,
		StartDate:    time.Now().Add(-24 * time.Hour),
		EndDate:      time.Now().Add(29 * 24 * time.Hour),
	}
	db.Create(&sub)

	return &restaurant, &plan
}

func TestCanAddTableUnderAndAtLimit(t *testing.T) {
	db := setupPlanTestDB(t)
	restaurant, _ := seedRestaurantWithPlan(db, 5, 100, nil)
	svc := NewPlanService(db)

	for i := 0; i < 4; i++ {
		db.Create(&models.Table{
			RestaurantID: restaurant.ID,
			Name:         fmt.Sprintf("T%d", i+1),
			Token:        fmt.Sprintf("token-%d", i+1),
			IsActive:     true,
		})
	}

	ok, msg, err := svc.CanAddTable(restaurant.ID)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, msg)

	db.Create(&models.Table{RestaurantID: restaurant.ID, Name: "T5", Token: "token-5", IsActive: true})

	ok, msg, err = svc.CanAddTable(restaurant.ID)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "plan limit reached: 5 tables allowed", msg)
}

func TestCanAddMenuItemAtLimit(t *testing.T) {
	db := setupPlanTestDB(t)
	restaurant, _ := seedRestaurantWithPlan(db, 5, 2, nil)
	svc := NewPlanService(db)

	db.Create(&models.MenuItem{RestaurantID: restaurant.ID, Name: "Soup", Price: 4.5, IsAvailable: true})
	db.Create(&models.MenuItem{RestaurantID: restaurant.ID, Name: "Salad", Price: 6.0, IsAvailable: true})

	ok, msg, err := svc.CanAddMenuItem(restaurant.ID)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "plan limit reached: 2 menu items allowed", msg)
}

func TestQuotaWithoutSubscription(t *testing.T) {
	db := setupPlanTestDB(t)
	svc := NewPlanService(db)

	user := models.User{Name: "Owner", Email: "nosub@example.com", Password: "x", Role: models.RoleOwner}
	db.Create(&user)
	restaurant := models.Restaurant{OwnerID: user.ID, PublicID: "pub-nosub", Name: "No Sub", IsActive: true}
	db.Create(&restaurant)

	_, _, err := svc.CanAddTable(restaurant.ID)
	assert.ErrorIs(t, err, ErrNoActiveSubscription)

	remaining, err := svc.RemainingTables(restaurant.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, remaining)

	assert.False(t, svc.IsSubscriptionActive(restaurant.ID))
	assert.False(t, svc.HasFeature(restaurant.ID, "live_dashboard"))
}

func TestExpiredSubscriptionIsNotActive(t *testing.T) {
	db := setupPlanTestDB(t)
	restaurant, plan := seedRestaurantWithPlan(db, 5, 100, nil)
	svc := NewPlanService(db)

	db.Model(&models.Subscription{}).Where("restaurant_id = ?", restaurant.ID).
		Update("end_date", time.Now().Add(-time.Hour))

	assert.False(t, svc.IsSubscriptionActive(restaurant.ID))

	// A newer active row takes over.
	db.Create(&models.Subscription{
		RestaurantID: restaurant.ID,
		PlanID:       plan.ID,
		Status:       models.SubscriptionStatusActive,
		StartDate:    time.Now(),
		EndDate:      time.Now().Add(30 * 24 * time.Hour),
	})
	assert.True(t, svc.IsSubscriptionActive(restaurant.ID))
}

func TestHasFeature(t *testing.T) {
	db := setupPlanTestDB(t)
	restaurant, _ := seedRestaurantWithPlan(db, 5, 100, datatypes.JSONMap{
		"live_dashboard": true,
		"qr_ordering":    true,
		"analytics":      false,
	})
	svc := NewPlanService(db)

	assert.True(t, svc.HasFeature(restaurant.ID, "live_dashboard"))
	assert.False(t, svc.HasFeature(restaurant.ID, "analytics"))
	assert.False(t, svc.HasFeature(restaurant.ID, "unknown_feature"))
}

func TestGetPlanInfo(t *testing.T) {
	db := setupPlanTestDB(t)
	restaurant, plan := seedRestaurantWithPlan(db, 10, 100, nil)
	svc := NewPlanService(db)

	db.Create(&models.Table{RestaurantID: restaurant.ID, Name: "T1", Token: "tok-1", IsActive: true})

	info, err := svc.GetPlanInfo(restaurant.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, info.Status)
	assert.Equal(t, plan.Name, info.Plan["name"])
	assert.Equal(t, int64(1), info.TablesUsed)
	assert.Equal(t, 10, info.TablesAvailable)
	assert.Equal(t, 10.0, info.UsagePercent["tables"])

	remaining, err := svc.RemainingTables(restaurant.ID)
	assert.NoError(t, err)
	assert.Equal(t, 9, remaining)
}
