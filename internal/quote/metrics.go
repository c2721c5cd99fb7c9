package quote

import (
	"context"
	"time"

	"github.com/talarad/goldrad-bot/pkg/metrics"
)

// InstrumentedSource records fetch latency and failures for every lookup.
type InstrumentedSource struct {
	next Source
}

var _ Source = (*InstrumentedSource)(nil)

// NewInstrumentedSource wraps next with Prometheus instrumentation.
func NewInstrumentedSource(next Source) *InstrumentedSource {
	return &InstrumentedSource{next: next}
}

// Fetch delegates to the wrapped source and reports the outcome.
func (s *InstrumentedSource) Fetch(ctx context.Context, instrument Instrument) (int64, error) {
	start := time.Now()
	price, err := s.next.Fetch(ctx, instrument)
	metrics.RecordQuoteFetch(string(instrument), time.Since(start))

	if err != nil {
		kind := string(ErrorKindFetch)
		if qerr := AsError(instrument, err); qerr != nil {
			kind = string(qerr.Kind)
		}
		metrics.RecordQuoteError(string(instrument), kind)
	}

	return price, err
}
