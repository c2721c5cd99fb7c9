package config

import "time"

// Config holds runtime configuration for the Goldrad bot.
type Config struct {
	AppEnv string `mapstructure:"-"`

	Bot       BotConfig       `mapstructure:"bot" validate:"required"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Quote     QuoteConfig     `mapstructure:"quote"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
}

// BotConfig configures the Telegram transport.
type BotConfig struct {
	Token    string        `mapstructure:"token" validate:"required"`
	Mode     string        `mapstructure:"mode" validate:"oneof=polling webhook"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Language string        `mapstructure:"language"`

	// WebhookListen is the webhook bind address, distinct from the ops port.
	WebhookListen string `mapstructure:"webhook_listen"`
}

// ServerConfig configures the ops HTTP server (metrics, health).
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// RedisConfig configures the optional Redis backend used by the rate
// limiter and the quote cache.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// QuoteConfig configures the upstream price provider.
type QuoteConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// RateLimitRule is one limit/window pair; the window is a Go duration string.
type RateLimitRule struct {
	Limit  int    `mapstructure:"limit"`
	Window string `mapstructure:"window"`
}

// RateLimitConfig configures per-user throttling.
type RateLimitConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	PerUser   RateLimitRule `mapstructure:"per_user"`
	Whitelist []int64       `mapstructure:"whitelist"`
}

// SentryConfig configures error reporting.
type SentryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}
