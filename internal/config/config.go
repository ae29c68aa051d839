package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is loaded once at startup and passed explicitly into each component
// that needs it. Nothing re-reads the environment after Load.
type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// View tokens: bind issued tokens to the requester's IP
	ViewTokenBindIP bool

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Billing
	StripeSecretKey     string
	StripeWebhookSecret string

	// Billing plan ids, one per tier and interval
	StripePriceIDFree            string
	StripePriceIDBaseMonthly     string
	StripePriceIDBaseYearly      string
	StripePriceIDStandardMonthly string
	StripePriceIDStandardYearly  string
	StripePriceIDPlusMonthly     string
	StripePriceIDPlusYearly      string
	StripePriceIDBusinessMonthly string
	StripePriceIDBusinessYearly  string

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppName: envString("APP_NAME", "shothost"),
		AppEnv:  envRequired("APP_ENV"), // 'development' or 'production'
		AppURL:  envRequired("APP_URL"),
		Port:    envString("PORT", "8090"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/shothost.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		ViewTokenBindIP: envBool("VIEW_TOKEN_BIND_IP", true),

		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		StripeSecretKey:     envRequired("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: envString("STRIPE_WEBHOOK_SECRET", ""),

		StripePriceIDFree:            envString("STRIPE_PRICE_ID_FREE", ""),
		StripePriceIDBaseMonthly:     envString("STRIPE_PRICE_ID_BASE_MONTHLY", ""),
		StripePriceIDBaseYearly:      envString("STRIPE_PRICE_ID_BASE_YEARLY", ""),
		StripePriceIDStandardMonthly: envString("STRIPE_PRICE_ID_STANDARD_MONTHLY", ""),
		StripePriceIDStandardYearly:  envString("STRIPE_PRICE_ID_STANDARD_YEARLY", ""),
		StripePriceIDPlusMonthly:     envString("STRIPE_PRICE_ID_PLUS_MONTHLY", ""),
		StripePriceIDPlusYearly:      envString("STRIPE_PRICE_ID_PLUS_YEARLY", ""),
		StripePriceIDBusinessMonthly: envString("STRIPE_PRICE_ID_BUSINESS_MONTHLY", ""),
		StripePriceIDBusinessYearly:  envString("STRIPE_PRICE_ID_BUSINESS_YEARLY", ""),

		SentryDSN: envString("SENTRY_DSN", ""),

		S3Region:    envRequired("S3_REGION"),
		S3Bucket:    envRequired("S3_BUCKET"),
		S3AccessKey: envRequired("S3_ACCESS_KEY"),
		S3SecretKey: envRequired("S3_SECRET_KEY"),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
	}

	return cfg
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
