package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Meta Graph API configuration
	GraphAPIBase      string
	FBPageID          string
	FBPageName        string
	FBPageAccessToken string
	IGUserID          string

	// OAuth app credentials for the Instagram linking flow
	MetaAppID        string
	MetaAppSecret    string
	OAuthRedirectURL string

	// Upstream fetch behavior
	FetchLimit   int
	FetchTimeout time.Duration

	// Digest configuration
	DigestSchedule    string // cron spec, empty disables the digest
	DigestWebhookURL  string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		GraphAPIBase:      getEnv("GRAPH_API_BASE", "https://graph.facebook.com/v21.0"),
		FBPageID:          getEnv("FB_PAGE_ID", ""),
		FBPageName:        getEnv("FB_PAGE_NAME", "Noticias del Meta"),
		FBPageAccessToken: getEnv("FB_PAGE_ACCESS_TOKEN", ""),
		IGUserID:          getEnv("IG_USER_ID", ""),

		MetaAppID:        getEnv("META_APP_ID", ""),
		MetaAppSecret:    getEnv("META_APP_SECRET", ""),
		OAuthRedirectURL: getEnv("OAUTH_REDIRECT_URL", "http://localhost:8080/instagram/callback"),

		FetchLimit:   getIntEnv("FETCH_LIMIT", 39),
		FetchTimeout: time.Duration(getIntEnv("FETCH_TIMEOUT_SECONDS", 20)) * time.Second,

		DigestSchedule:    getEnv("DIGEST_SCHEDULE", ""),
		DigestWebhookURL:  getEnv("DIGEST_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.FetchLimit < 1 {
		return fmt.Errorf("FETCH_LIMIT must be at least 1")
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive")
	}

	if c.DigestSchedule != "" && c.DigestWebhookURL == "" && c.NotificationEmail == "" {
		return fmt.Errorf("DIGEST_SCHEDULE is set but no digest channel is configured (DIGEST_WEBHOOK_URL or NOTIFICATION_EMAIL)")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
