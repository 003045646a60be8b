package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	DatabaseURL   string

	RedisAddr     string
	RedisPassword string
	SlotHoldTTL   time.Duration

	SessionJWTSecret string
	SessionTTL       time.Duration

	LoginRateLimit float64
	LoginRateBurst int

	// SendGrid email configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	// Video provider configuration
	VideoAPIBaseURL   string
	VideoAPIKey       string
	VideoAPISecret    string
	VideoTokenTTL     time.Duration
	MeetingLinkDomain string

	// Postal-code lookup
	PostalAPIBaseURL string
	PostalAPITimeout time.Duration

	// Outbox worker
	OutboxBatchSize    int
	OutboxPollInterval time.Duration

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SlotHoldTTL:   getEnvAsDuration("SLOT_HOLD_TTL", 5*time.Minute),

		SessionJWTSecret: getEnv("SESSION_JWT_SECRET", ""),
		SessionTTL:       getEnvAsDuration("SESSION_TTL", 12*time.Hour),

		LoginRateLimit: getEnvAsFloat("LOGIN_RATE_LIMIT", 1),
		LoginRateBurst: getEnvAsInt("LOGIN_RATE_BURST", 5),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Clínica SanaVida"),

		VideoAPIBaseURL:   getEnv("VIDEO_API_BASE_URL", ""),
		VideoAPIKey:       getEnv("VIDEO_API_KEY", ""),
		VideoAPISecret:    getEnv("VIDEO_API_SECRET", ""),
		VideoTokenTTL:     getEnvAsDuration("VIDEO_TOKEN_TTL", time.Hour),
		MeetingLinkDomain: getEnv("MEETING_LINK_DOMAIN", "https://meet.sanavida.app"),

		PostalAPIBaseURL: getEnv("POSTAL_API_BASE_URL", "https://api.zippopotam.us"),
		PostalAPITimeout: getEnvAsDuration("POSTAL_API_TIMEOUT", 5*time.Second),

		OutboxBatchSize:    getEnvAsInt("OUTBOX_BATCH_SIZE", 25),
		OutboxPollInterval: getEnvAsDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
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

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
