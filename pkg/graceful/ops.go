// Package graceful runs the operational HTTP endpoint next to the bot.
package graceful

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talarad/goldrad-bot/internal/health"
	"github.com/talarad/goldrad-bot/pkg/config"
	"github.com/talarad/goldrad-bot/pkg/logger"
)

const (
	healthCheckTimeout     = 3 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// OpsServer serves Prometheus metrics and the aggregated health report on a
// port separate from the bot transport.
type OpsServer struct {
	httpServer      *http.Server
	log             *slog.Logger
	shutdownTimeout time.Duration
}

// NewOpsServer builds the operational server. Checks run on every /healthz
// request; any failure turns the response into a 503.
func NewOpsServer(cfg config.ServerConfig, log *slog.Logger, checker *health.Checker) *OpsServer {
	if log == nil {
		log = slog.Default()
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &OpsServer{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           logger.Middleware(requestLogger(log, newOpsMux(checker))),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log:             log,
		shutdownTimeout: timeout,
	}
}

// ListenAndServe serves /metrics and /healthz until ctx is canceled, then
// drains in-flight requests within the shutdown timeout.
func (s *OpsServer) ListenAndServe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)

	go func() {
		s.log.Info("ops server listening",
			slog.String("addr", s.httpServer.Addr),
			slog.String("endpoints", "/metrics /healthz"))

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			s.log.Error("ops server error", slog.Any("error", err))
		}

		errCh <- err
		cancel()
	}()

	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancelShutdown()

	s.log.Info("shutting down ops server", slog.Duration("timeout", s.shutdownTimeout))

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("ops server shutdown error", slog.Any("error", err))
		return err
	}

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	default:
		return nil
	}
}

// newOpsMux wires the metrics and health endpoints.
func newOpsMux(checker *health.Checker) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		statuses := map[string]string{}
		code := http.StatusOK

		if checker != nil {
			statuses = checker.Check(ctx)
			if !health.AllOK(statuses) {
				code = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(statuses)
	})

	return mux
}

// requestLogger logs method, path, status and latency for every ops request.
func requestLogger(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		log.Info("handled ops request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", recorder.status),
			slog.Duration("duration", time.Since(start)),
			slog.String("correlation_id", logger.CorrelationIDFromContext(r.Context())),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
