// Package config provides configuration loading and validation utilities.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from the per-environment YAML file and the
// environment, validates it, and returns the resulting Config together
// with the viper instance for optional watching.
func Load() (*Config, *viper.Viper, error) {
	// Missing env files are fine; everything can come from the YAML or
	// real environment variables.
	_ = godotenv.Load(".env.local", ".env")

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	v.SetConfigFile(fmt.Sprintf("./configs/%s.yaml", env))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secrets never live in the YAML files.
	_ = v.BindEnv("bot.token", "BOT_TOKEN")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("sentry.dsn", "SENTRY_DSN")

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, nil, err
	}
	cfg.AppEnv = env

	return cfg, v, nil
}

// Watch re-reads the config file on change and hands the fresh Config to
// onChange. Invalid edits are logged and skipped; the running config stays.
func Watch(v *viper.Viper, log *slog.Logger, onChange func(*Config)) {
	if v == nil || onChange == nil {
		return
	}

	if log == nil {
		log = slog.Default()
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("config file changed", slog.String("file", e.Name))

		cfg, err := unmarshal(v)
		if err != nil {
			log.Error("ignoring invalid config change", slog.Any("error", err))
			return
		}

		onChange(cfg)
	})
	v.WatchConfig()
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
