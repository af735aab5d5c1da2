package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/seatserve/seatserve-backend/models"
)

// ErrInvalidSignature is returned when a webhook payload fails verification.
// Callers must not interpret the body after seeing this error.
var ErrInvalidSignature = errors.New("webhook signature verification failed")

// StripeConfig holds the gateway credentials and endpoints. It is passed into
// NewStripeService explicitly; the client keeps no global state.
type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	WebhookSecret  string
	BaseURL        string
	FrontendURL    string
	Currency       string
	// Tolerance bounds the age of a webhook timestamp; zero means 5 minutes.
	Tolerance time.Duration
}

// StripeService is a thin client for the hosted checkout API. All charge and
// card logic lives on the gateway side; this only creates sessions, reads
// them back, requests refunds and verifies webhook signatures.
type StripeService struct {
	config     StripeConfig
	httpClient *http.Client
}

func NewStripeService(cfg StripeConfig) *StripeService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.stripe.com"
	}
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = 5 * time.Minute
	}
	return &StripeService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ValidateConfig checks that the gateway credentials are present.
func (s *StripeService) ValidateConfig() error {
	if s.config.SecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is not set")
	}
	if s.config.WebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET is not set")
	}
	return nil
}

// PublishableKey is exposed to clients embedding the checkout form.
func (s *StripeService) PublishableKey() string {
	return s.config.PublishableKey
}

// CheckoutSession is the subset of the gateway session object we read.
type CheckoutSession struct {
	ID            string            `json:"id"`
	ClientSecret  string            `json:"client_secret"`
	PaymentIntent string            `json:"payment_intent"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Metadata      map[string]string `json:"metadata"`
}

// Refund is the subset of the gateway refund object we read.
type Refund struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

// CreateCheckoutSession creates a hosted checkout session for an order. Line
// items are priced in minor currency units from the order's price snapshots;
// the success URL embeds the order's public token so the customer lands back
// on their status page.
func (s *StripeService) CreateCheckoutSession(order *models.Order) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", fmt.Sprintf("%s/order-status/%s?session_id={CHECKOUT_SESSION_ID}",
		s.config.FrontendURL, order.PublicToken))
	form.Set("cancel_url", fmt.Sprintf("%s/order-status/%s", s.config.FrontendURL, order.PublicToken))
	form.Set("metadata[order_id]", strconv.FormatUint(uint64(order.ID), 10))
	form.Set("metadata[restaurant_id]", strconv.FormatUint(uint64(order.RestaurantID), 10))

	for i, item := range order.Items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", s.config.Currency)
		form.Set(prefix+"[price_data][product_data][name]", item.MenuItem.Name)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(toMinorUnits(item.PriceAtTime), 10))
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
	}

	var session CheckoutSession
	if err := s.do("POST", "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// RetrieveSession fetches a checkout session by id.
func (s *StripeService) RetrieveSession(sessionID string) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := s.do("GET", "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateRefund refunds a payment intent. amount is in minor currency units;
// zero requests a full refund.
func (s *StripeService) CreateRefund(paymentIntent string, amount int64, reason string) (*Refund, error) {
	form := url.Values{}
	form.Set("payment_intent", paymentIntent)
	if amount > 0 {
		form.Set("amount", strconv.FormatInt(amount, 10))
	}
	if reason != "" {
		form.Set("metadata[reason]", reason)
	}

	var refund Refund
	if err := s.do("POST", "/v1/refunds", form, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

// WebhookEvent is a verified gateway event. Data.Object holds the raw session
// or charge payload for the dispatcher to decode.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// VerifyWebhookSignature checks the signature header against the configured
// endpoint secret before the payload is parsed. The header carries a unix
// timestamp and one or more HMAC-SHA256 signatures over "timestamp.payload";
// any match within the tolerance window accepts the event.
func (s *StripeService) VerifyWebhookSignature(payload []byte, sigHeader string) (*WebhookEvent, error) {
	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, ErrInvalidSignature
	}

	age := time.Since(time.Unix(timestamp, 0))
	if age > s.config.Tolerance || age < -s.config.Tolerance {
		return nil, ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(s.config.WebhookSecret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	verified := false
	for _, sig := range signatures {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			verified = true
			break
		}
	}
	if !verified {
		return nil, ErrInvalidSignature
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("error unmarshaling webhook event: %v", err)
	}
	return &event, nil
}

// SignPayload computes the signature header for a payload as the gateway
// would. Used to build webhook requests in tests.
func (s *StripeService) SignPayload(payload []byte, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(s.config.WebhookSecret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func parseSignatureHeader(header string) (int64, []string, error) {
	var timestamp int64 = -1
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, err
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, errors.New("malformed signature header")
	}
	return timestamp, signatures, nil
}

// do sends one request to the gateway and decodes the JSON response. Any
// non-2xx answer surfaces as an error; nothing is retried here.
func (s *StripeService) do(method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequest(method, s.config.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}
	req.SetBasicAuth(s.config.SecretKey, "")
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("error unmarshaling response: %v", err)
	}
	return nil
}

// toMinorUnits converts a decimal amount to cents.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// fromMinorUnits converts cents back to a decimal amount.
func fromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}
