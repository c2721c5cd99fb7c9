// Package handlers implements the task handlers run by the jobs worker.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/talarad/goldrad-bot/internal/jobs"
	"github.com/talarad/goldrad-bot/internal/quote"
)

// QuoteRefreshHandler fetches instruments through the cached source so the
// cache stays warm between user requests.
type QuoteRefreshHandler struct {
	source quote.Source
	log    *slog.Logger
}

func NewQuoteRefreshHandler(source quote.Source, log *slog.Logger) *QuoteRefreshHandler {
	if log == nil {
		log = slog.Default()
	}

	return &QuoteRefreshHandler{source: source, log: log}
}

func (h *QuoteRefreshHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload jobs.QuoteRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.log.ErrorContext(ctx, "quote refresh: failed to decode payload",
			slog.String("task_type", t.Type()), slog.Any("error", err))
		return err
	}

	instruments := payload.Instruments
	if len(instruments) == 0 {
		instruments = quote.Instruments
	}

	results := quote.FetchAll(ctx, h.source, instruments...)

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
			h.log.WarnContext(ctx, "quote refresh: instrument failed",
				slog.String("instrument", string(r.Instrument)), slog.Any("error", r.Err))
		}
	}

	h.log.InfoContext(ctx, "quote refresh complete",
		slog.Int("instruments", len(results)), slog.Int("failed", failed))

	// A full miss means the upstream is down; let asynq retry the task.
	if failed == len(results) && failed > 0 {
		return fmt.Errorf("quote refresh: all %d instruments failed", failed)
	}

	return nil
}
