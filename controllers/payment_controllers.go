package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/live"
	"github.com/seatserve/seatserve-backend/middlewares"
	"github.com/seatserve/seatserve-backend/models"
	"github.com/seatserve/seatserve-backend/services"
	"github.com/seatserve/seatserve-backend/utils"
)

type PaymentController struct {
	DB       *gorm.DB
	Payments *services.PaymentService
}

func NewPaymentController(db *gorm.DB, payments *services.PaymentService) *PaymentController {
	return &PaymentController{DB: db, Payments: payments}
}

// GetPayments -> payments of the caller's restaurant, newest first
func (pc *PaymentController) GetPayments(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	query := pc.DB.Where("restaurant_id = ?", restaurant.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var payments []models.Payment
	if err := query.Order("created_at DESC").Find(&payments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of payments", payments)
}

// GetTodayPayments -> today's payments plus completed/pending totals
func (pc *PaymentController) GetTodayPayments(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	payments, summary, err := pc.Payments.Today(restaurant.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Today's payments", gin.H{
		"payments": payments,
		"summary":  summary,
	})
}

// CreateCheckout -> open a gateway checkout session for an unpaid order
func (pc *PaymentController) CreateCheckout(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	var req struct {
		OrderID uint `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := pc.DB.Where("id = ? AND restaurant_id = ?", req.OrderID, restaurant.ID).
		Preload("Items.MenuItem").First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	result, err := pc.Payments.CreateCheckout(&order, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrAlreadyPaid) {
			utils.RespondError(c, http.StatusConflict, err)
			return
		}
		utils.ErrorLogger.Printf("Checkout failed for order %d: %v", order.ID, err)
		utils.RespondError(c, http.StatusBadGateway, errors.New("payment processing failed"))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Checkout session created", result)
}

// ConfirmPayment -> poll the gateway for a session and settle the payment
func (pc *PaymentController) ConfirmPayment(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	var req struct {
		SessionID string `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Ownership first: the gateway is only polled for the caller's own session.
	var owned models.Payment
	if err := pc.DB.Where("session_id = ? AND restaurant_id = ?", req.SessionID, restaurant.ID).First(&owned).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("payment not found"))
		return
	}

	payment, paid, err := pc.Payments.Confirm(req.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("payment not found"))
			return
		}
		utils.ErrorLogger.Printf("Payment confirmation failed: %v", err)
		utils.RespondError(c, http.StatusBadGateway, errors.New("payment processing failed"))
		return
	}

	if paid {
		live.BroadcastPaymentUpdate(payment)
	}
	utils.RespondJSON(c, http.StatusOK, "Payment status", gin.H{
		"payment": payment,
		"paid":    paid,
	})
}

// Refund -> refund a completed payment, partially or in full
func (pc *PaymentController) Refund(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)
	paymentID := c.Param("payment_id")

	var payment models.Payment
	if err := pc.DB.Where("id = ? AND restaurant_id = ?", paymentID, restaurant.ID).First(&payment).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("payment not found"))
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
		Reason string  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := pc.Payments.Refund(&payment, req.Amount, req.Reason); err != nil {
		switch {
		case errors.Is(err, services.ErrNotRefundable), errors.Is(err, services.ErrRefundExceedsBalance):
			utils.RespondError(c, http.StatusBadRequest, err)
		default:
			utils.ErrorLogger.Printf("Refund failed for payment %s: %v", paymentID, err)
			utils.RespondError(c, http.StatusBadGateway, errors.New("payment processing failed"))
		}
		return
	}

	live.BroadcastPaymentUpdate(&payment)
	utils.RespondJSON(c, http.StatusOK, "Refund processed", payment)
}

// Webhook -> gateway event delivery endpoint. The raw body is read before
// any parsing so the signature is verified over the exact bytes sent.
func (pc *PaymentController) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 1<<16))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unable to read payload"))
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if err := pc.Payments.HandleWebhook(payload, sigHeader); err != nil {
		if errors.Is(err, services.ErrInvalidSignature) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid signature"))
			return
		}
		utils.ErrorLogger.Printf("Webhook handling failed: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("webhook processing failed"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Webhook processed", nil)
}
