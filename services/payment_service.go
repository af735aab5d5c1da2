package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/models"
	"github.com/seatserve/seatserve-backend/utils"
)

var (
	ErrAlreadyPaid          = errors.New("order already paid")
	ErrNotRefundable        = errors.New("payment is not refundable")
	ErrRefundExceedsBalance = errors.New("refund amount exceeds available balance")
)

// Gateway event types dispatched by HandleWebhook.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventChargeSucceeded   = "charge.succeeded"
	EventChargeFailed      = "charge.failed"
	EventChargeRefunded    = "charge.refunded"
)

// PaymentService owns Payment rows and translates gateway responses and
// webhooks into payment state transitions.
type PaymentService struct {
	DB     *gorm.DB
	Stripe *StripeService
}

func NewPaymentService(db *gorm.DB, stripe *StripeService) *PaymentService {
	return &PaymentService{DB: db, Stripe: stripe}
}

// CheckoutResult is returned to the client embedding the payment form.
type CheckoutResult struct {
	PaymentID      uint   `json:"payment_id"`
	SessionID      string `json:"session_id"`
	ClientSecret   string `json:"client_secret,omitempty"`
	PublishableKey string `json:"publishable_key"`
}

// CreateCheckout opens a gateway checkout session for an order and records a
// PENDING payment row with the session id. An order that already completed
// payment is refused; an existing pending row is reused with the new session.
func (s *PaymentService) CreateCheckout(order *models.Order, clientIP, userAgent string) (*CheckoutResult, error) {
	var payment models.Payment
	err := s.DB.Where("order_id = ?", order.ID).First(&payment).Error
	switch {
	case err == nil:
		if payment.Status == models.PaymentStatusCompleted {
			return nil, ErrAlreadyPaid
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		payment = models.Payment{
			OrderID:      order.ID,
			RestaurantID: order.RestaurantID,
			Amount:       order.TotalAmount,
			Currency:     "USD",
			Status:       models.PaymentStatusPending,
		}
		if err := s.DB.Create(&payment).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	session, err := s.Stripe.CreateCheckoutSession(order)
	if err != nil {
		return nil, fmt.Errorf("payment processing failed: %w", err)
	}

	payment.SessionID = session.ID
	payment.Status = models.PaymentStatusPending
	payment.IPAddress = clientIP
	payment.UserAgent = truncate(userAgent, 500)
	if err := s.DB.Save(&payment).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Checkout session created: payment=%d session=%s", payment.ID, session.ID)

	return &CheckoutResult{
		PaymentID:      payment.ID,
		SessionID:      session.ID,
		ClientSecret:   session.ClientSecret,
		PublishableKey: s.Stripe.PublishableKey(),
	}, nil
}

// Confirm polls the gateway for a session and, when it reports paid, marks
// the payment COMPLETED, records the charge reference and moves the order's
// payment status to PAID. Returns the payment and whether it is now paid.
func (s *PaymentService) Confirm(sessionID string) (*models.Payment, bool, error) {
	var payment models.Payment
	if err := s.DB.Where("session_id = ?", sessionID).First(&payment).Error; err != nil {
		return nil, false, err
	}

	session, err := s.Stripe.RetrieveSession(sessionID)
	if err != nil {
		return nil, false, fmt.Errorf("payment processing failed: %w", err)
	}
	if session.PaymentStatus != "paid" {
		return &payment, false, nil
	}

	if err := s.completePayment(&payment, session.PaymentIntent); err != nil {
		return nil, false, err
	}
	return &payment, true, nil
}

// Refund requests a gateway refund. amount zero refunds the full remaining
// balance. Only COMPLETED payments with a remaining balance are refundable.
func (s *PaymentService) Refund(payment *models.Payment, amount float64, reason string) error {
	if !payment.IsRefundable() {
		return ErrNotRefundable
	}
	if amount == 0 {
		amount = payment.RemainingRefundable()
	}
	if amount < 0 || amount > payment.RemainingRefundable() {
		return ErrRefundExceedsBalance
	}

	refund, err := s.Stripe.CreateRefund(payment.GatewayReference, toMinorUnits(amount), reason)
	if err != nil {
		return fmt.Errorf("payment processing failed: %w", err)
	}

	now := time.Now()
	payment.RefundAmount += amount
	payment.RefundReason = reason
	payment.RefundGatewayReference = refund.ID
	payment.RefundedAt = &now
	if refund.Status == "succeeded" {
		payment.Status = models.PaymentStatusRefunded
	} else {
		payment.Status = models.PaymentStatusRefundPending
	}

	if err := s.DB.Save(payment).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Payment refunded: payment=%d refund=%s amount=%.2f", payment.ID, refund.ID, amount)
	return nil
}

// HandleWebhook verifies the signature, then dispatches the event to the
// matching payment transition. Verification failures are logged as security
// events and returned so the HTTP layer answers with a rejection status and
// the gateway retries delivery. Handlers are idempotent: a re-delivered
// event finds the status already applied and changes nothing.
func (s *PaymentService) HandleWebhook(payload []byte, sigHeader string) error {
	event, err := s.Stripe.VerifyWebhookSignature(payload, sigHeader)
	if err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			utils.SecurityEvent("webhook signature verification failed")
		}
		return err
	}

	utils.InfoLogger.Printf("Webhook received: %s (%s)", event.Type, event.ID)

	switch event.Type {
	case EventCheckoutCompleted:
		return s.handleCheckoutCompleted(event.Data.Object)
	case EventChargeSucceeded:
		return s.handleChargeSucceeded(event.Data.Object)
	case EventChargeFailed:
		return s.handleChargeFailed(event.Data.Object)
	case EventChargeRefunded:
		return s.handleChargeRefunded(event.Data.Object)
	default:
		// Unknown event types are acknowledged without action.
		return nil
	}
}

func (s *PaymentService) handleCheckoutCompleted(object json.RawMessage) error {
	var session struct {
		ID            string `json:"id"`
		PaymentIntent string `json:"payment_intent"`
	}
	if err := json.Unmarshal(object, &session); err != nil {
		return err
	}

	var payment models.Payment
	if err := s.DB.Where("session_id = ?", session.ID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorLogger.Printf("Webhook for unknown session: %s", session.ID)
			return nil
		}
		return err
	}

	if payment.Status == models.PaymentStatusCompleted {
		return nil
	}
	return s.completePayment(&payment, session.PaymentIntent)
}

func (s *PaymentService) handleChargeSucceeded(object json.RawMessage) error {
	payment, charge, err := s.paymentForCharge(object)
	if err != nil || payment == nil {
		return err
	}
	if payment.Status == models.PaymentStatusCompleted {
		return nil
	}
	return s.completePayment(payment, charge.ID)
}

func (s *PaymentService) handleChargeFailed(object json.RawMessage) error {
	payment, _, err := s.paymentForCharge(object)
	if err != nil || payment == nil {
		return err
	}
	if payment.Status == models.PaymentStatusFailed {
		return nil
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(payment).Update("status", models.PaymentStatusFailed).Error; err != nil {
			return err
		}
		return tx.Model(&models.Order{}).Where("id = ?", payment.OrderID).
			Update("payment_status", models.OrderPaymentFailed).Error
	})
}

func (s *PaymentService) handleChargeRefunded(object json.RawMessage) error {
	payment, charge, err := s.paymentForCharge(object)
	if err != nil || payment == nil {
		return err
	}
	if payment.Status == models.PaymentStatusRefunded {
		return nil
	}

	updates := map[string]interface{}{
		"status": models.PaymentStatusRefunded,
	}
	if refunded := fromMinorUnits(charge.AmountRefunded); refunded > payment.RefundAmount {
		updates["refund_amount"] = refunded
	}
	return s.DB.Model(payment).Updates(updates).Error
}

type chargeObject struct {
	ID             string            `json:"id"`
	Status         string            `json:"status"`
	AmountRefunded int64             `json:"amount_refunded"`
	Metadata       map[string]string `json:"metadata"`
}

// paymentForCharge resolves a charge event to a payment by order-id metadata.
// Charges without a matching payment are dropped, not failed, so the gateway
// does not redeliver events this system cannot act on.
func (s *PaymentService) paymentForCharge(object json.RawMessage) (*models.Payment, *chargeObject, error) {
	var charge chargeObject
	if err := json.Unmarshal(object, &charge); err != nil {
		return nil, nil, err
	}

	orderID, err := strconv.ParseUint(charge.Metadata["order_id"], 10, 32)
	if err != nil {
		return nil, nil, nil
	}

	var payment models.Payment
	if err := s.DB.Where("order_id = ?", uint(orderID)).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return &payment, &charge, nil
}

// completePayment marks a payment COMPLETED and moves its order to PAID in
// one transaction.
func (s *PaymentService) completePayment(payment *models.Payment, gatewayRef string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		payment.Status = models.PaymentStatusCompleted
		payment.GatewayReference = gatewayRef
		if err := tx.Model(payment).Updates(map[string]interface{}{
			"status":            models.PaymentStatusCompleted,
			"gateway_reference": gatewayRef,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Order{}).Where("id = ?", payment.OrderID).
			Update("payment_status", models.OrderPaymentPaid).Error
	})
}

// TodaySummary totals today's payments for the dashboard.
type TodaySummary struct {
	Completed float64 `json:"completed"`
	Pending   float64 `json:"pending"`
	Count     int64   `json:"count"`
}

func (s *PaymentService) Today(restaurantID uint) ([]models.Payment, *TodaySummary, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var payments []models.Payment
	if err := s.DB.Where("restaurant_id = ? AND created_at >= ?", restaurantID, dayStart).
		Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, nil, err
	}

	summary := &TodaySummary{Count: int64(len(payments))}
	for _, p := range payments {
		switch p.Status {
		case models.PaymentStatusCompleted:
			summary.Completed += p.Amount
		case models.PaymentStatusPending:
			summary.Pending += p.Amount
		}
	}
	return payments, summary, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
