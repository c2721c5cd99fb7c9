package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/talarad/goldrad-bot/internal/errors"
	"github.com/talarad/goldrad-bot/pkg/logger"
)

// RecoveryMiddleware catches panics, reports them via the centralized handler, and notifies the user.
func RecoveryMiddleware(log *slog.Logger, errHandler *apperrors.Handler) telebot.MiddlewareFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))

					userMsg := ""
					if errHandler != nil {
						appErr := apperrors.NewInternalError(fmt.Errorf("panic recovered: %v", r))
						userMsg, _ = errHandler.Handle(context.Background(), appErr)
					}

					if userMsg != "" {
						if sendErr := c.Send(userMsg); sendErr != nil {
							log.Error("failed to notify user about panic", slog.Any("error", sendErr))
						}
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware centralizes error reporting and user messaging for handler failures.
func ErrorHandlingMiddleware(errHandler *apperrors.Handler) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			if errHandler == nil {
				return err
			}

			ctx := logger.WithCorrelationID(context.Background(), "")
			if userMsg, _ := errHandler.Handle(ctx, err); userMsg != "" {
				_ = c.Send(userMsg)
			}

			return nil
		}
	}
}

// LoggingMiddleware logs basic telemetry about incoming updates.
func LoggingMiddleware(log *slog.Logger) telebot.MiddlewareFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			start := time.Now()

			chatID := int64(0)
			if c.Chat() != nil {
				chatID = c.Chat().ID
			}

			err := next(c)
			log.Info("handled update",
				slog.Int64("chat_id", chatID),
				slog.Int("text_len", len(c.Text())),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}
