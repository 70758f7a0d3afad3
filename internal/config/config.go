package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Postgres backs the CRUD routes, the auth directory and the event outbox.
	// Empty means in-memory stores.
	DatabaseURL string

	// Redis holds booking sessions. Empty means in-memory sessions.
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SessionTTL    time.Duration

	RabbitMQURL         string
	BookingEventsQueue  string
	OutboxPollInterval  time.Duration
	CatalogFile         string
	BookingTimezone     string
	SpaName             string
	PromptPayID         string
	ConfirmationFont    string
	CORSAllowedOrigins  []string
	AdminJWTSecret      string
	RateLimitRPS        float64
	RateLimitBurst      int
	ShutdownGracePeriod time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 2*time.Hour),

		RabbitMQURL:         getEnv("RABBITMQ_URL", ""),
		BookingEventsQueue:  getEnv("BOOKING_EVENTS_QUEUE", "booking.submitted"),
		OutboxPollInterval:  getEnvAsDuration("OUTBOX_POLL_INTERVAL", 5*time.Second),
		CatalogFile:         getEnv("CATALOG_FILE", ""),
		BookingTimezone:     getEnv("BOOKING_TIMEZONE", "Asia/Bangkok"),
		SpaName:             getEnv("SPA_NAME", "Spa Booking"),
		PromptPayID:         getEnv("PROMPTPAY_ID", ""),
		ConfirmationFont:    getEnv("CONFIRMATION_FONT_PATH", ""),
		CORSAllowedOrigins:  getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		AdminJWTSecret:      getEnv("ADMIN_JWT_SECRET", ""),
		RateLimitRPS:        getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:      getEnvAsInt("RATE_LIMIT_BURST", 20),
		ShutdownGracePeriod: getEnvAsDuration("SHUTDOWN_GRACE_PERIOD", 30*time.Second),
	}
}

// Location resolves BookingTimezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.BookingTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated variable, dropping blanks.
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
