package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Queue weights favor refreshes enqueued by hand over the scheduled cadence.
var queueWeights = map[string]int{
	QueueCritical: 6,
	QueueDefault:  3,
	QueueLow:      1,
}

// Worker processes queued quote refreshes. Concurrency stays low because
// every task fans out to the same upstream provider.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *slog.Logger
}

// NewWorker constructs a Worker that routes quote refresh tasks to the
// provided handler.
func NewWorker(redisOpt asynq.RedisConnOpt, refreshHandler asynq.Handler, log *slog.Logger) *Worker {
	server := asynq.NewServer(redisOpt, asynq.Config{
		Queues:         queueWeights,
		Concurrency:    2,
		RetryDelayFunc: asynq.DefaultRetryDelayFunc,
	})

	mux := asynq.NewServeMux()
	mux.Handle(TaskTypeQuoteRefresh, refreshHandler)

	return &Worker{
		server: server,
		mux:    mux,
		log:    log,
	}
}

// Run starts processing quote refresh tasks until Shutdown is called.
func (w *Worker) Run() error {
	if w.log != nil {
		w.log.InfoContext(context.Background(), "quote refresh worker: starting")
	}

	return w.server.Run(w.mux)
}

// Shutdown drains in-flight refreshes and stops the worker.
func (w *Worker) Shutdown() {
	if w.log != nil {
		w.log.InfoContext(context.Background(), "quote refresh worker: shutting down")
	}

	w.server.Shutdown()
}
