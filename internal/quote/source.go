package quote

import (
	"context"
	"errors"
)

// Source produces the current price for an instrument.
//
// Implementations must return either a non-negative price or a *Error; they
// never panic. A returned error leaves the caller free to retry later.
type Source interface {
	Fetch(ctx context.Context, instrument Instrument) (int64, error)
}

// FetchAll resolves every requested instrument sequentially into Results.
// Individual failures are captured per instrument instead of aborting the
// whole snapshot, so callers decide whether partial data is acceptable.
func FetchAll(ctx context.Context, source Source, instruments ...Instrument) []Result {
	results := make([]Result, 0, len(instruments))

	for _, instrument := range instruments {
		price, err := source.Fetch(ctx, instrument)
		if err != nil {
			results = append(results, Result{Instrument: instrument, Err: AsError(instrument, err)})
			continue
		}

		results = append(results, Result{Instrument: instrument, Price: price})
	}

	return results
}

// AsError coerces an arbitrary fetch failure into a tagged *Error,
// unwrapping decorator errors along the way.
func AsError(instrument Instrument, err error) *Error {
	if err == nil {
		return nil
	}

	var qe *Error
	if errors.As(err, &qe) {
		return qe
	}

	return NewError(instrument, ErrorKindFetch, err)
}
