package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/models"
)

func setupOrderTestDB(t *testing.T) (*gorm.DB, *models.Restaurant, *models.Table) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Restaurant{}, &models.Table{},
		&models.Category{}, &models.MenuItem{}, &models.Order{}, &models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	user := models.User{Name: "Owner", Email: "owner@example.com", Password: "x", Role: models.RoleOwner}
	db.Create(&user)
	restaurant := models.Restaurant{OwnerID: user.ID, PublicID: "pub-1", Name: "Testaurant", IsActive: true}
	db.Create(&restaurant)
	table := models.Table{RestaurantID: restaurant.ID, Name: "T1", Token: "table-token", Capacity: 4, IsActive: true}
	db.Create(&table)

	return db, &restaurant, &table
}

func TestCreateOrderTotalsFromSnapshots(t *testing.T) {
	db, restaurant, table := setupOrderTestDB(t)
	svc := NewOrderService(db)

	burger := models.MenuItem{RestaurantID: restaurant.ID, Name: "Burger", Price: 9.5, IsAvailable: true}
	fries := models.MenuItem{RestaurantID: restaurant.ID, Name: "Fries", Price: 3.25, IsAvailable: true}
	db.Create(&burger)
	db.Create(&fries)

	order, err := svc.CreateOrder(restaurant, table, CreateOrderInput{
		Items: []OrderItemInput{
			{MenuItemID: burger.ID, Quantity: 2},
			{MenuItemID: fries.ID, Quantity: 1},
		},
		CustomerNote: "no onions",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusReceived, order.Status)
	assert.Equal(t, models.OrderPaymentPending, order.PaymentStatus)
	assert.NotEmpty(t, order.PublicToken)
	assert.Len(t, order.Items, 2)
	assert.InDelta(t, 2*9.5+3.25, order.TotalAmount, 0.001)
}

func TestCreateOrderSnapshotSurvivesPriceEdit(t *testing.T) {
	db, restaurant, table := setupOrderTestDB(t)
	svc := NewOrderService(db)

	item := models.MenuItem{RestaurantID: restaurant.ID, Name: "Pasta", Price: 12.0, IsAvailable: true}
	db.Create(&item)

	order, err := svc.CreateOrder(restaurant, table, CreateOrderInput{
		Items: []OrderItemInput{{MenuItemID: item.ID, Quantity: 1}},
	})
	assert.NoError(t, err)

	db.Model(&item).Update("price", 20.0)

	var reloaded models.Order
	assert.NoError(t, db.Preload("Items").First(&reloaded, order.ID).Error)
	assert.Equal(t, 12.0, reloaded.Items[0].PriceAtTime)
	assert.Equal(t, 12.0, reloaded.TotalAmount)
}

func TestCreateOrderValidation(t *testing.T) {
	db, restaurant, table := setupOrderTestDB(t)
	svc := NewOrderService(db)

	item := models.MenuItem{RestaurantID: restaurant.ID, Name: "Soup", Price: 5.0, IsAvailable: true}
	db.Create(&item)

	_, err := svc.CreateOrder(restaurant, table, CreateOrderInput{})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = svc.CreateOrder(restaurant, table, CreateOrderInput{
		Items: []OrderItemInput{{MenuItemID: item.ID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateOrderRejectsForeignAndUnavailableItems(t *testing.T) {
	db, restaurant, table := setupOrderTestDB(t)
	svc := NewOrderService(db)

	otherOwner := models.User{Name: "Other", Email: "other@example.com", Password: "x", Role: models.RoleOwner}
	db.Create(&otherOwner)
	other := models.Restaurant{OwnerID: otherOwner.ID, PublicID: "pub-2", Name: "Other", IsActive: true}
	db.Create(&other)
	foreign := models.MenuItem{RestaurantID: other.ID, Name: "Foreign Dish", Price: 7.0, IsAvailable: true}
	db.Create(&foreign)

	_, err := svc.CreateOrder(restaurant, table, CreateOrderInput{
		Items: []OrderItemInput{{MenuItemID: foreign.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	offMenu := models.MenuItem{RestaurantID: restaurant.ID, Name: "Sold Out", Price: 7.0, IsAvailable: false}
	db.Create(&offMenu)

	_, err = svc.CreateOrder(restaurant, table, CreateOrderInput{
		Items: []OrderItemInput{{MenuItemID: offMenu.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The failed transactions must leave nothing behind.
	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUpdateStatus(t *testing.T) {
	db, restaurant, table := setupOrderTestDB(t)
	svc := NewOrderService(db)

	item := models.MenuItem{RestaurantID: restaurant.ID, Name: "Curry", Price: 11.0, IsAvailable: true}
	db.Create(&item)
	order, err := svc.CreateOrder(restaurant, table, CreateOrderInput{
		Items: []OrderItemInput{{MenuItemID: item.ID, Quantity: 1}},
	})
	assert.NoError(t, err)

	updated, err := svc.UpdateStatus(restaurant.ID, order.ID, models.OrderStatusInKitchen)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusInKitchen, updated.Status)

	// Any known label may follow any other.
	updated, err = svc.UpdateStatus(restaurant.ID, order.ID, models.OrderStatusCancelled)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)

	_, err = svc.UpdateStatus(restaurant.ID, order.ID, "DELIVERED")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}
