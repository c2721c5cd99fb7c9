// Package jobs runs background tasks over asynq, keeping the quote cache
// warm so user-facing requests rarely hit the upstream provider.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/talarad/goldrad-bot/internal/quote"
)

const (
	TaskTypeQuoteRefresh = "quote:refresh"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

type QuoteRefreshPayload struct {
	Instruments []quote.Instrument `json:"instruments"`
}

func NewQuoteRefreshTask(instruments []quote.Instrument) (*asynq.Task, error) {
	payload, err := json.Marshal(QuoteRefreshPayload{Instruments: instruments})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskTypeQuoteRefresh, payload, asynq.Queue(QueueDefault)), nil
}
