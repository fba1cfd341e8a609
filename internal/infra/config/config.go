package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the service
type AppConfig struct {
	DatabaseURL         string
	TelegramToken       string
	NatsURL             string
	CommentEventSubject string
	CronSpecDailyScan   string
	MetricsListenAddr   string
	NotifyLinkBase      string
	LogLevel            string
	Environment         string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.NatsURL = os.Getenv("NATS_URL")
	if cfg.NatsURL == "" {
		cfg.NatsURL = "nats://localhost:4222"
	}

	cfg.CommentEventSubject = os.Getenv("COMMENT_EVENT_SUBJECT")
	if cfg.CommentEventSubject == "" {
		cfg.CommentEventSubject = "casemgmt.evaluation_comments.created"
	}

	cfg.CronSpecDailyScan = os.Getenv("CRON_SPEC_DAILY_SCAN")
	if cfg.CronSpecDailyScan == "" {
		cfg.CronSpecDailyScan = "0 9 * * *" // Default: 9:00 AM daily
	}

	cfg.MetricsListenAddr = os.Getenv("METRICS_LISTEN_ADDR")
	if cfg.MetricsListenAddr == "" {
		cfg.MetricsListenAddr = ":9273"
	}

	cfg.NotifyLinkBase = strings.TrimRight(os.Getenv("NOTIFY_LINK_BASE"), "/")

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}
