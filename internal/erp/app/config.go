package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer         string // Optional: iss claim for tokens (default: outrenational-erp)
	NumKeys        int    // Optional: ephemeral signing keys to generate (default: 3, max: 10)
	SigningKeyFile string // Optional: PEM Ed25519 key; when set tokens survive restarts
	DatabaseFile   string // Optional: path to SQLite database file (default: ./erp.db)
	PepperFile     string // Optional: path to file containing the password pepper (default: ./pepper)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	MetricsEnabled       bool          // Install the OpenTelemetry meter provider (default: true)

	RedisAddr     string // Optional: use Redis for the VAT cache and stock locks
	RedisPassword string
	RedisDB       int

	VATCacheTTL      time.Duration // VIES answer cache lifetime (default: 24h)
	VIESBaseURL      string        // Optional: override the VIES REST endpoint
	DiscogsBaseURL   string        // Optional: override the Discogs API endpoint
	DiscogsToken     string        // Optional: personal access token, raises rate limits
	DiscogsUserAgent string

	StripeSecretKey      string // Optional: billing is disabled without it
	StripeWebhookSecret  string
	StripeDefaultPriceID string
	StripeBaseURL        string // Optional: point the Stripe client at stripe-mock
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("ERP_ISSUER", "outrenational-erp"),
		NumKeys:        getEnvIntOrDefault("ERP_NUM_KEYS", 3),
		SigningKeyFile: os.Getenv("ERP_SIGNING_KEY_FILE"),
		DatabaseFile:   getEnvOrDefault("ERP_DATABASE_FILE", "erp.db"),
		PepperFile:     getEnvOrDefault("ERP_PEPPER_FILE", "pepper"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		MetricsEnabled:       getEnvBoolOrDefault("METRICS_ENABLED", true),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),

		VATCacheTTL:      getEnvDurationOrDefault("VAT_CACHE_TTL", 24*time.Hour),
		VIESBaseURL:      os.Getenv("VIES_BASE_URL"),
		DiscogsBaseURL:   os.Getenv("DISCOGS_BASE_URL"),
		DiscogsToken:     os.Getenv("DISCOGS_TOKEN"),
		DiscogsUserAgent: os.Getenv("DISCOGS_USER_AGENT"),

		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeDefaultPriceID: os.Getenv("STRIPE_DEFAULT_PRICE_ID"),
		StripeBaseURL:        os.Getenv("STRIPE_BASE_URL"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
