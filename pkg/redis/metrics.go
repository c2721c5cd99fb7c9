package redis

import (
	"context"
	"net"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	redis "github.com/redis/go-redis/v9"
)

var (
	redisRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_requests_total",
			Help: "Total number of Redis commands by name.",
		},
		[]string{"command"},
	)
	redisErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_errors_total",
			Help: "Total number of Redis command errors by name.",
		},
		[]string{"command"},
	)
	redisRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_request_duration_seconds",
			Help:    "Redis command latency distributions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
)

// metricsHook instruments every command issued through the client.
type metricsHook struct{}

func newMetricsHook() redis.Hook { return metricsHook{} }

func (metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		timer := prometheus.NewTimer(redisRequestDuration.WithLabelValues(cmd.Name()))
		err := next(ctx, cmd)
		timer.ObserveDuration()

		redisRequestsTotal.WithLabelValues(cmd.Name()).Inc()
		if err != nil && err != redis.Nil {
			redisErrorsTotal.WithLabelValues(cmd.Name()).Inc()
		}

		return err
	}
}

func (metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		timer := prometheus.NewTimer(redisRequestDuration.WithLabelValues("pipeline"))
		err := next(ctx, cmds)
		timer.ObserveDuration()

		redisRequestsTotal.WithLabelValues("pipeline").Inc()
		if err != nil {
			redisErrorsTotal.WithLabelValues("pipeline").Inc()
		}

		return err
	}
}
