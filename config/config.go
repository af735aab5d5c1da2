package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config collects everything the process reads from the environment.
// The Stripe block is handed to the payment adapter explicitly; nothing
// in the gateway client reads ambient state.
type Config struct {
	Port        string
	GinMode     string
	DatabaseDSN string
	JWTSecret   string
	FrontendURL string

	StripeSecretKey      string
	StripePublishableKey string
	StripeWebhookSecret  string
	StripeAPIBase        string
	Currency             string
}

func Load() *Config {
	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		GinMode:     os.Getenv("GIN_MODE"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		FrontendURL: getenv("FRONTEND_URL", "http://localhost:3000"),

		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripePublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		StripeWebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeAPIBase:        getenv("STRIPE_API_BASE", "https://api.stripe.com"),
		Currency:             getenv("CURRENCY", "usd"),
	}
	return cfg
}

// Validate reports the required settings that are missing.
func (c *Config) Validate() error {
	required := map[string]string{
		"STRIPE_SECRET_KEY":     c.StripeSecretKey,
		"STRIPE_WEBHOOK_SECRET": c.StripeWebhookSecret,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("required environment variable %s is not set", name)
		}
	}
	return nil
}

// InitDB opens the database. MySQL when DATABASE_DSN is set, otherwise a
// local SQLite file so the server runs without external services.
func InitDB(cfg *Config) (*gorm.DB, error) {
	if cfg.DatabaseDSN != "" {
		return gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(getenv("SQLITE_PATH", "seatserve.db")), &gorm.Config{})
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
