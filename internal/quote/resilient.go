package quote

import (
	"context"
	"log/slog"

	apperrors "github.com/talarad/goldrad-bot/internal/errors"
)

// ResilientSource decorates a Source with retry and circuit breaking.
// Transient fetch failures are retried with backoff; a persistently failing
// upstream trips the breaker so the bot answers "try later" immediately
// instead of blocking every conversation on a dead endpoint.
type ResilientSource struct {
	next    Source
	breaker *apperrors.CircuitBreaker
	log     *slog.Logger
}

// NewResilientSource wraps next with the default retry and breaker policy.
func NewResilientSource(next Source, log *slog.Logger) *ResilientSource {
	if log == nil {
		log = slog.Default()
	}

	return &ResilientSource{
		next:    next,
		breaker: apperrors.NewCircuitBreaker(),
		log:     log,
	}
}

// Fetch resolves the instrument through the breaker, retrying transient
// failures. Parse and unsupported-instrument errors are final; only fetch
// failures are worth retrying.
func (s *ResilientSource) Fetch(ctx context.Context, instrument Instrument) (int64, error) {
	var price int64

	err := s.breaker.Call(func() error {
		return apperrors.WithRetry(ctx, func() error {
			p, fetchErr := s.next.Fetch(ctx, instrument)
			if fetchErr != nil {
				qe := AsError(instrument, fetchErr)
				if qe.Kind == ErrorKindFetch {
					return apperrors.NewQuoteError(string(instrument), qe)
				}
				return qe
			}

			price = p
			return nil
		})
	})

	if err != nil {
		if err == apperrors.ErrCircuitOpen {
			s.log.Warn("quote circuit open, failing fast", slog.String("instrument", string(instrument)))
		}
		return 0, AsError(instrument, err)
	}

	return price, nil
}
