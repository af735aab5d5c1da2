package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/config"
	"github.com/seatserve/seatserve-backend/models"
	"github.com/seatserve/seatserve-backend/router"
	"github.com/seatserve/seatserve-backend/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	os.Exit(m.Run())
}

// TestOwnerToCustomerFlow walks the main path end to end:
// 1. Register an owner and log in
// 2. Create the restaurant and pick a plan
// 3. Add a table and a menu item
// 4. Place a customer order through the table's public URL
// 5. Move the order through the kitchen and check the stats
func TestOwnerToCustomerFlow(t *testing.T) {
	db := setupIntegrationDB()
	r := router.SetupRouter(db, &config.Config{
		Port:                "8080",
		FrontendURL:         "http://localhost:3000",
		StripeSecretKey:     "sk_test_123",
		StripeWebhookSecret: "whsec_test_secret",
		Currency:            "usd",
	})

	token := registerAndLogin(t, r)

	// Restaurant.
	resp := doJSON(t, r, "POST", "/api/restaurant", token, map[string]interface{}{
		"name": "Corner Bistro",
	})
	assert.Equal(t, http.StatusCreated, resp.Code)

	var restaurant models.Restaurant
	if err := db.First(&restaurant).Error; err != nil {
		t.Fatalf("restaurant not created: %v", err)
	}

	// Plan.
	resp = doJSON(t, r, "POST", "/api/subscriptions", token, map[string]interface{}{
		"plan_id": seededPlanID(db),
	})
	assert.Equal(t, http.StatusCreated, resp.Code)

	// Table.
	resp = doJSON(t, r, "POST", "/api/tables", token, map[string]interface{}{
		"name": "Window 1", "capacity": 2,
	})
	assert.Equal(t, http.StatusCreated, resp.Code)

	var table models.Table
	if err := db.First(&table).Error; err != nil {
		t.Fatalf("table not created: %v", err)
	}

	// Menu item.
	resp = doJSON(t, r, "POST", "/api/menu/items", token, map[string]interface{}{
		"name": "Margherita", "price": 11.5,
	})
	assert.Equal(t, http.StatusCreated, resp.Code)

	var item models.MenuItem
	if err := db.First(&item).Error; err != nil {
		t.Fatalf("menu item not created: %v", err)
	}

	// Customer order through the QR URL.
	publicPath := fmt.Sprintf("/public/restaurants/%s/tables/%s/orders", restaurant.PublicID, table.Token)
	resp = doJSON(t, r, "POST", publicPath, "", map[string]interface{}{
		"items": []map[string]interface{}{{"menu_item_id": item.ID, "quantity": 2}},
	})
	assert.Equal(t, http.StatusCreated, resp.Code)

	var order models.Order
	if err := db.First(&order).Error; err != nil {
		t.Fatalf("order not created: %v", err)
	}
	assert.Equal(t, models.OrderStatusReceived, order.Status)
	assert.InDelta(t, 23.0, order.TotalAmount, 0.001)

	// Kitchen moves the order along.
	resp = doJSON(t, r, "PATCH", fmt.Sprintf("/api/orders/%d/status", order.ID), token, map[string]interface{}{
		"status": models.OrderStatusServed,
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	// Customer still tracks it by public token.
	req, _ := http.NewRequest("GET", "/public/orders/"+order.PublicToken, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.OrderStatusServed)

	// Stats reflect the day.
	req, _ = http.NewRequest("GET", "/api/orders/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_orders_today":1`)
}

func setupIntegrationDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{}, &models.Restaurant{}, &models.Plan{}, &models.Subscription{},
		&models.Table{}, &models.Category{}, &models.MenuItem{},
		&models.Order{}, &models.OrderItem{}, &models.Payment{}, &models.StaffMember{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	db.Create(&models.Plan{
		Name:          "Standard",
		Price:         29,
		BillingPeriod: models.BillingPeriodMonth,
		MaxTables:     10,
		MaxMenuItems:  100,
		IsActive:      true,
	})
	return db
}

func seededPlanID(db *gorm.DB) uint {
	var plan models.Plan
	db.First(&plan)
	return plan.ID
}

func registerAndLogin(t *testing.T, r *gin.Engine) string {
	resp := doJSON(t, r, "POST", "/register", "", map[string]interface{}{
		"name": "Alex", "email": "alex@example.com", "password": "supersecret",
	})
	assert.Equal(t, http.StatusCreated, resp.Code)

	resp = doJSON(t, r, "POST", "/login", "", map[string]interface{}{
		"email": "alex@example.com", "password": "supersecret",
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil || body.Data.Token == "" {
		t.Fatalf("login did not return a token: %v", err)
	}
	return body.Data.Token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
