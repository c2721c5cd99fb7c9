// Package metrics exposes Prometheus instrumentation for the Goldrad bot.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	botMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_messages_total",
			Help: "Total number of bot messages handled labeled by step and status",
		},
		[]string{"step", "status"},
	)
	messageDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "message_duration_seconds",
			Help:    "Duration of message handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"step"},
	)
	stateTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_transitions_total",
			Help: "Total number of conversation step transitions",
		},
		[]string{"from", "to"},
	)
	quoteFetchDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quote_fetch_duration_seconds",
			Help:    "Duration of upstream quote fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"instrument"},
	)
	quoteErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_errors_total",
			Help: "Total number of quote fetch failures labeled by instrument and kind",
		},
		[]string{"instrument", "kind"},
	)
	adviceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advice_total",
			Help: "Total number of advisory outcomes labeled by recommendation",
		},
		[]string{"recommendation"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
	activeConversations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_conversations",
			Help: "Current number of conversations held in the state store",
		},
	)
)

// RecordMessage increments message counters and records handling duration.
func RecordMessage(step, status string, duration time.Duration) {
	if step == "" {
		step = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botMessagesTotal.WithLabelValues(step, status).Inc()
	messageDurationSeconds.WithLabelValues(step).Observe(duration.Seconds())
}

// RecordStateTransition tracks conversation step transitions.
func RecordStateTransition(from, to string) {
	if from == "" {
		from = "unknown"
	}
	if to == "" {
		to = "unknown"
	}

	stateTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordQuoteFetch records the duration of one upstream fetch.
func RecordQuoteFetch(instrument string, duration time.Duration) {
	if instrument == "" {
		instrument = "unknown"
	}

	quoteFetchDurationSeconds.WithLabelValues(instrument).Observe(duration.Seconds())
}

// RecordQuoteError increments the failure counter for an instrument.
func RecordQuoteError(instrument, kind string) {
	if instrument == "" {
		instrument = "unknown"
	}
	if kind == "" {
		kind = "unknown"
	}

	quoteErrorsTotal.WithLabelValues(instrument, kind).Inc()
}

// RecordAdvice increments the advisory outcome counter.
func RecordAdvice(recommendation string) {
	if recommendation == "" {
		recommendation = "unknown"
	}

	adviceTotal.WithLabelValues(recommendation).Inc()
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	if errType == "" {
		errType = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(errType, severity).Inc()
}

// ConversationCounter reports how many conversations are currently stored.
type ConversationCounter interface {
	Len() int
}

// ConversationCollector periodically samples the state store size.
type ConversationCollector struct {
	store ConversationCounter
}

// NewConversationCollector builds a collector bound to the provided store.
func NewConversationCollector(store ConversationCounter) *ConversationCollector {
	return &ConversationCollector{store: store}
}

// Run samples the store every 10 seconds until ctx is cancelled.
func (c *ConversationCollector) Run(ctx context.Context) {
	if c == nil || c.store == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		activeConversations.Set(float64(c.store.Len()))

		select {
		case <-ctx.Done():
			return
		case <-time.After(10 * time.Second):
		}
	}
}
