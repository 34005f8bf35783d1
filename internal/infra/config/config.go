package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseDriver     string        `env:"DATABASE_DRIVER" envDefault:"postgres"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	AutoMigrate        bool          `env:"DATABASE_AUTO_MIGRATE" envDefault:"false"`
	HTTPAddr           string        `env:"HTTP_ADDR" envDefault:":8050"`
	PublicURL          string        `env:"PUBLIC_URL"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"600"`
	CORSOrigins        []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	Environment        string        `env:"ENVIRONMENT" envDefault:"development"`
	TelegramToken      string        `env:"TELEGRAM_TOKEN"`
	TelegramChatID     int64         `env:"TELEGRAM_CHAT_ID"`
	CronSpecDigest     string        `env:"CRON_SPEC_DIGEST" envDefault:"0 8 * * 1"` // Mondays 08:00
}

var supportedDrivers = []string{"postgres", "mysql", "sqlite"}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Environment = strings.ToLower(cfg.Environment)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings and value ranges.
func (c *AppConfig) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	supported := false
	for _, d := range supportedDrivers {
		if c.DatabaseDriver == d {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("invalid DATABASE_DRIVER %q: must be one of %s", c.DatabaseDriver, strings.Join(supportedDrivers, ", "))
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}
	return nil
}

// TelegramEnabled reports whether the bot and the scheduled digest should run.
func (c *AppConfig) TelegramEnabled() bool {
	return c.TelegramToken != ""
}
