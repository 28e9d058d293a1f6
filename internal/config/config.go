package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	Port        string
	TokenTTL    time.Duration

	// Directory API access.
	DirectoryAPIKey  string
	DirectoryBaseURL string
	DefaultRegion    string

	// SnapshotDir switches contact snapshots to JSON files when set;
	// empty means Postgres.
	SnapshotDir string

	// Draft generation. Empty GeminiAPIKey selects the mock generator.
	GeminiAPIKey string
	GeminiModel  string

	// Outgoing mail. Empty SMTPHost selects the mock sender.
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	ResumePath   string

	// GmailCredentialsFile enables the sent-mail duplicate check when set.
	GmailCredentialsFile string

	RateLimitDiscover RateLimitConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret"),
		Port:             getEnv("PORT", "8080"),
		TokenTTL:         parseDuration(getEnv("JWT_TTL", "24h")),
		DirectoryAPIKey:  os.Getenv("DIRECTORY_API_KEY"),
		DirectoryBaseURL: os.Getenv("DIRECTORY_BASE_URL"),
		DefaultRegion:    getEnv("DEFAULT_PHONE_REGION", "US"),
		SnapshotDir:      os.Getenv("SNAPSHOT_DIR"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:         os.Getenv("SMTP_FROM"),
		ResumePath:       os.Getenv("RESUME_PATH"),

		GmailCredentialsFile: os.Getenv("GMAIL_CREDENTIALS_FILE"),
	}

	if cfg.DirectoryAPIKey == "" {
		return nil, fmt.Errorf("DIRECTORY_API_KEY must be set")
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_DISCOVER", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_DISCOVER value: %w", err)
	}
	cfg.RateLimitDiscover = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}
