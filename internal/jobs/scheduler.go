package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/talarad/goldrad-bot/internal/quote"
)

const defaultRefreshInterval = time.Minute

type Scheduler interface {
	RegisterTasks() error
	Run()
	Shutdown()
}

type scheduler struct {
	asynqScheduler *asynq.Scheduler
	refreshEvery   time.Duration
	log            *slog.Logger
}

// NewScheduler builds a scheduler that refreshes quotes once per cacheTTL,
// so cache entries never go stale between runs.
func NewScheduler(redisOpt asynq.RedisConnOpt, cacheTTL time.Duration, log *slog.Logger) Scheduler {
	return &scheduler{
		asynqScheduler: asynq.NewScheduler(redisOpt, nil),
		refreshEvery:   cacheTTL,
		log:            log,
	}
}

func (s *scheduler) RegisterTasks() error {
	task, err := NewQuoteRefreshTask(quote.Instruments)
	if err != nil {
		return err
	}

	spec := refreshSpec(s.refreshEvery)
	if _, err := s.asynqScheduler.Register(spec, task); err != nil {
		return err
	}

	if s.log != nil {
		s.log.InfoContext(context.Background(), "scheduler: registered quote refresh task",
			slog.String("cadence", spec))
	}

	return nil
}

// refreshSpec renders the asynq interval spec for the given cache TTL.
func refreshSpec(ttl time.Duration) string {
	if ttl <= 0 {
		ttl = defaultRefreshInterval
	}

	return fmt.Sprintf("@every %s", ttl)
}

func (s *scheduler) Run() {
	if s.log != nil {
		s.log.InfoContext(context.Background(), "scheduler: starting")
	}

	go func() {
		if err := s.asynqScheduler.Run(); err != nil && s.log != nil {
			s.log.ErrorContext(context.Background(), "scheduler: run failed", "error", err)
		}
	}()
}

func (s *scheduler) Shutdown() {
	if s.log != nil {
		s.log.InfoContext(context.Background(), "scheduler: shutting down")
	}

	s.asynqScheduler.Shutdown()
}
