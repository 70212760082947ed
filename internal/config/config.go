package config

import (
	"os"
	"strconv"
	"strings"
)

// Config is built once at process start and passed by reference into the
// use cases; the reconciliation engine holds no ambient global state.
type Config struct {
	Port int

	MercadoPagoAccessToken string
	WebhookSecret          string

	// PublicBaseURL is the origin serving the emergency pages the QR codes
	// point at.
	PublicBaseURL string

	PaymentsTable      string
	ProfilesTable      string
	SubscriptionsTable string
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:                   getIntEnv("PORT", 8080),
		MercadoPagoAccessToken: os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
		WebhookSecret:          os.Getenv("MERCADOPAGO_WEBHOOK_SECRET"),
		PublicBaseURL:          getenvDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
		PaymentsTable:          getenvDefault("PAYMENTS_TABLE", "payments"),
		ProfilesTable:          getenvDefault("PROFILES_TABLE", "profiles"),
		SubscriptionsTable:     getenvDefault("SUBSCRIPTIONS_TABLE", "subscriptions"),
	}
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
