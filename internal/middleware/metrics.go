package middleware

import (
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/talarad/goldrad-bot/internal/state"
	"github.com/talarad/goldrad-bot/pkg/metrics"
)

// Metrics measures handling time per conversation step, reporting to Prometheus.
// The step label is read before the handler runs so a transition mid-handling
// attributes the work to the step that received the message.
func Metrics(store state.Store) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			step := "unknown"
			if store != nil && c.Chat() != nil {
				step = string(store.Get(c.Chat().ID).Step)
			}

			start := time.Now()
			err := next(c)

			status := "ok"
			if err != nil {
				status = "error"
			}

			metrics.RecordMessage(step, status, time.Since(start))

			return err
		}
	}
}
