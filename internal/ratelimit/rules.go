package ratelimit

import (
	"errors"
	"time"

	"github.com/talarad/goldrad-bot/pkg/config"
)

// Rules encapsulates the configured per-user limit and whitelist.
type Rules struct {
	config config.RateLimitConfig
}

// NewRules constructs rate limiting rules from configuration settings.
func NewRules(cfg config.RateLimitConfig) *Rules {
	return &Rules{config: cfg}
}

// IsWhitelisted returns true if the userID bypasses rate limits.
func (r *Rules) IsWhitelisted(userID int64) bool {
	for _, id := range r.config.Whitelist {
		if id == userID {
			return true
		}
	}
	return false
}

// PerUserLimit returns the per-user message limit and its window.
func (r *Rules) PerUserLimit() (int, time.Duration, error) {
	rule := r.config.PerUser
	if rule.Window == "" {
		return 0, 0, errors.New("rate limit window is not set")
	}

	window, err := time.ParseDuration(rule.Window)
	if err != nil {
		return 0, 0, err
	}

	return rule.Limit, window, nil
}
