// Package middleware holds telebot middlewares shared by the bot transport.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/talarad/goldrad-bot/internal/errors"
	"github.com/talarad/goldrad-bot/internal/ratelimit"
)

// RateLimitMiddleware enforces per-user rate limits for incoming Telegram updates.
type RateLimitMiddleware struct {
	limiter    ratelimit.Limiter
	rules      *ratelimit.Rules
	errHandler *apperrors.Handler
	log        *slog.Logger
}

// NewRateLimitMiddleware constructs a rate-limit middleware component.
func NewRateLimitMiddleware(limiter ratelimit.Limiter, rules *ratelimit.Rules, errHandler *apperrors.Handler, log *slog.Logger) *RateLimitMiddleware {
	if log == nil {
		log = slog.Default()
	}

	return &RateLimitMiddleware{
		limiter:    limiter,
		rules:      rules,
		errHandler: errHandler,
		log:        log,
	}
}

// Handle returns a telebot middleware that enforces per-user rate limits.
// Limiter backend failures fail open so a Redis outage never silences the bot.
func (m *RateLimitMiddleware) Handle(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		if m.limiter == nil || m.rules == nil {
			return next(c)
		}

		sender := c.Sender()
		if sender == nil {
			return next(c)
		}

		userID := sender.ID
		if m.rules.IsWhitelisted(userID) {
			return next(c)
		}

		limit, window, err := m.rules.PerUserLimit()
		if err != nil {
			m.log.Error("failed to load per-user rate limit", slog.Int64("user_id", userID), slog.Any("error", err))
			return next(c)
		}

		key := fmt.Sprintf("user:%d", userID)
		res, err := m.limiter.Check(context.Background(), key, limit, window)
		if errors.Is(err, ratelimit.ErrLimitExceeded) {
			return c.Send(m.reject(userID, res, window))
		}
		if err != nil {
			m.log.Warn("rate limiter error", slog.Int64("user_id", userID), slog.Any("error", err))
			return next(c)
		}

		return next(c)
	}
}

// reject reports the violation through the error handler and returns the
// user-facing message carrying the retry delay.
func (m *RateLimitMiddleware) reject(userID int64, res *ratelimit.Result, window time.Duration) string {
	appErr := apperrors.NewRateLimitError(retryAfterSeconds(res, window))

	if m.errHandler != nil {
		msg, _ := m.errHandler.Handle(context.Background(), appErr)
		m.log.Warn("rate limit exceeded", slog.Int64("user_id", userID))
		return msg
	}

	m.log.Warn("rate limit exceeded", slog.Int64("user_id", userID))
	return appErr.UserMessage
}

// retryAfterSeconds derives how long the user should wait. The sliding
// window only guarantees a free slot once the full window has passed, so the
// window length is the fallback when the reset time is already behind us.
func retryAfterSeconds(res *ratelimit.Result, window time.Duration) int {
	if res != nil {
		if wait := time.Until(res.ResetAt); wait > 0 {
			return int(wait.Seconds()) + 1
		}
	}

	seconds := int(window.Seconds())
	if seconds <= 0 {
		seconds = 1
	}

	return seconds
}
