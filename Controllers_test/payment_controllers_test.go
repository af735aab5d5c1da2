package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/controllers"
	"github.com/seatserve/seatserve-backend/models"
	"github.com/seatserve/seatserve-backend/services"
)

func setupPaymentControllerTest(t *testing.T, gatewayURL string) (*gorm.DB, *models.Restaurant, *models.Order, *services.StripeService, *gin.Engine) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Restaurant{}, &models.MenuItem{},
		&models.Order{}, &models.OrderItem{}, &models.Payment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	user := models.User{Name: "Owner", Email: "owner@example.com", Password: "x", Role: models.RoleOwner}
	db.Create(&user)
	restaurant := models.Restaurant{OwnerID: user.ID, PublicID: "pub-abc", Name: "Testaurant", IsActive: true}
	db.Create(&restaurant)
	order := models.Order{
		RestaurantID:  restaurant.ID,
		PublicToken:   "order-token",
		Status:        models.OrderStatusReceived,
		PaymentStatus: models.OrderPaymentPending,
		TotalAmount:   15.0,
	}
	db.Create(&order)

	stripe := services.NewStripeService(services.StripeConfig{
		SecretKey:      "sk_test_123",
		PublishableKey: "pk_test_123",
		WebhookSecret:  "whsec_test_secret",
		BaseURL:        gatewayURL,
		FrontendURL:    "http://localhost:3000",
	})
	paymentService := services.NewPaymentService(db, stripe)
	paymentCtrl := controllers.NewPaymentController(db, paymentService)

	gin.SetMode(gin.TestMode)
	router := gin.Default()
	router.POST("/payments/webhook", paymentCtrl.Webhook)
	authed := router.Group("/api")
	authed.Use(func(c *gin.Context) {
		c.Set("restaurant", &restaurant)
		c.Next()
	})
	authed.POST("/payments/checkout", paymentCtrl.CreateCheckout)
	authed.POST("/payments/confirm", paymentCtrl.ConfirmPayment)
	authed.POST("/payments/:payment_id/refund", paymentCtrl.Refund)

	return db, &restaurant, &order, stripe, router
}

func TestCheckoutEndpointCreatesSession(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            "cs_test_1",
			"client_secret": "cs_secret",
		})
	}))
	defer gateway.Close()

	db, _, order, _, router := setupPaymentControllerTest(t, gateway.URL)

	body := []byte(fmt.Sprintf(`{"order_id":%d}`, order.ID))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/payments/checkout", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "cs_test_1")

	var payment models.Payment
	assert.NoError(t, db.Where("order_id = ?", order.ID).First(&payment).Error)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
}

func TestWebhookEndpointRejectsBadSignature(t *testing.T) {
	_, _, _, _, router := setupPaymentControllerTest(t, "")

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/payments/webhook", bytes.NewBuffer(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=bogus")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid signature")
}

func TestWebhookEndpointCompletesPayment(t *testing.T) {
	db, restaurant, order, stripe, router := setupPaymentControllerTest(t, "")

	db.Create(&models.Payment{
		OrderID:      order.ID,
		RestaurantID: restaurant.ID,
		Amount:       order.TotalAmount,
		Status:       models.PaymentStatusPending,
		SessionID:    "cs_test_1",
	})

	payload, _ := json.Marshal(map[string]interface{}{
		"id":   "evt_1",
		"type": "checkout.session.completed",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":             "cs_test_1",
				"payment_intent": "pi_123",
			},
		},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/payments/webhook", bytes.NewBuffer(payload))
	req.Header.Set("Stripe-Signature", stripe.SignPayload(payload, time.Now()))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var payment models.Payment
	db.Where("session_id = ?", "cs_test_1").First(&payment)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)

	var reloaded models.Order
	db.First(&reloaded, order.ID)
	assert.Equal(t, models.OrderPaymentPaid, reloaded.PaymentStatus)
}

func TestConfirmEndpointRejectsForeignSession(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("gateway must not be polled for another restaurant's session")
	}))
	defer gateway.Close()

	db, _, _, _, router := setupPaymentControllerTest(t, gateway.URL)

	other := models.User{Name: "Other", Email: "other@example.com", Password: "x", Role: models.RoleOwner}
	db.Create(&other)
	otherRestaurant := models.Restaurant{OwnerID: other.ID, PublicID: "pub-xyz", Name: "Elsewhere", IsActive: true}
	db.Create(&otherRestaurant)
	otherOrder := models.Order{
		RestaurantID:  otherRestaurant.ID,
		PublicToken:   "order-token-2",
		Status:        models.OrderStatusReceived,
		PaymentStatus: models.OrderPaymentPending,
		TotalAmount:   20.0,
	}
	db.Create(&otherOrder)
	db.Create(&models.Payment{
		OrderID:      otherOrder.ID,
		RestaurantID: otherRestaurant.ID,
		Amount:       otherOrder.TotalAmount,
		Status:       models.PaymentStatusPending,
		SessionID:    "cs_other_1",
	})

	body := []byte(`{"session_id":"cs_other_1"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/payments/confirm", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var payment models.Payment
	db.Where("session_id = ?", "cs_other_1").First(&payment)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
}

func TestRefundEndpointGuardsPendingPayment(t *testing.T) {
	db, restaurant, order, _, router := setupPaymentControllerTest(t, "")

	payment := models.Payment{
		OrderID:      order.ID,
		RestaurantID: restaurant.ID,
		Amount:       order.TotalAmount,
		Status:       models.PaymentStatusPending,
	}
	db.Create(&payment)

	body := []byte(`{"reason":"customer request"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", fmt.Sprintf("/api/payments/%d/refund", payment.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not refundable")
}
