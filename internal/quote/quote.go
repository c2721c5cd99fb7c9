// Package quote fetches instrument prices from the upstream market data
// provider and exposes them as tagged results.
package quote

import "fmt"

// Instrument identifies one of the tracked price feeds.
type Instrument string

const (
	// InstrumentUSD is the US dollar rate in tomans.
	InstrumentUSD Instrument = "USD"
	// InstrumentAU is one gram of 18-karat domestic gold in tomans.
	InstrumentAU Instrument = "AU"
	// InstrumentGCHEMM is the Emami gold coin in tomans.
	InstrumentGCHEMM Instrument = "GCHEMM"
	// InstrumentXAU is the world gold ounce.
	InstrumentXAU Instrument = "XAU"
)

// Instruments lists every tracked instrument in presentation order.
var Instruments = []Instrument{InstrumentUSD, InstrumentAU, InstrumentGCHEMM, InstrumentXAU}

// ErrorKind classifies why a quote could not be produced.
type ErrorKind string

const (
	// ErrorKindFetch indicates the upstream request failed or returned a bad status.
	ErrorKindFetch ErrorKind = "fetch"
	// ErrorKindParse indicates the response could not be turned into a price.
	ErrorKindParse ErrorKind = "parse"
	// ErrorKindUnsupported indicates the instrument is not known to the source.
	ErrorKindUnsupported ErrorKind = "unsupported"
)

// Error is a tagged quote failure carrying the instrument that failed and why.
type Error struct {
	Instrument Instrument
	Kind       ErrorKind
	cause      error
}

// NewError builds a quote error for the given instrument and kind.
func NewError(instrument Instrument, kind ErrorKind, cause error) *Error {
	return &Error{Instrument: instrument, Kind: kind, cause: cause}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	if e.cause != nil {
		return fmt.Sprintf("quote %s: %s: %v", e.Instrument, e.Kind, e.cause)
	}

	return fmt.Sprintf("quote %s: %s", e.Instrument, e.Kind)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

/// Result is the outcome of fetching one instrument: either a non-negative
// price in tomans or a tagged error, never both.
type Result struct {
	Instrument Instrument
	Price      int64
	Err        *Error
}

// OK reports whether the result carries a usable price.
func (r Result) OK() bool {
	return r.Err == nil
}
