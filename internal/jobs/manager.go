package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/talarad/goldrad-bot/internal/quote"
)

// Manager enqueues quote refresh work outside the scheduler cadence, such
// as the warmup refresh at boot.
type Manager struct {
	client *asynq.Client
	log    *slog.Logger
}

// NewManager builds a Manager backed by an asynq client.
func NewManager(redisOpt asynq.RedisConnOpt, log *slog.Logger) *Manager {
	return &Manager{
		client: asynq.NewClient(redisOpt),
		log:    log,
	}
}

// EnqueueQuoteRefresh queues one refresh of the given instruments. An empty
// slice refreshes every tracked instrument.
func (m *Manager) EnqueueQuoteRefresh(ctx context.Context, instruments []quote.Instrument) error {
	task, err := NewQuoteRefreshTask(instruments)
	if err != nil {
		return err
	}

	info, err := m.client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}

	if m.log != nil {
		m.log.InfoContext(ctx, "enqueued quote refresh",
			slog.String("task_id", info.ID),
			slog.Int("instruments", len(instruments)))
	}

	return nil
}

func (m *Manager) Close() error {
	return m.client.Close()
}
