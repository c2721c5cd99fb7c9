package errors

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker refuses calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

var errHalfOpenTooManyRequests = errors.New("too many requests in half-open state")

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

// CircuitBreaker guards the upstream quote provider: after enough failures
// it fails fast for a cooldown window instead of hammering a dead endpoint.
type CircuitBreaker struct {
	errorThreshold float64
	minRequests    int
	cooldown       time.Duration
	halfOpenMax    int

	mu              sync.Mutex
	state           BreakerState
	failures        int
	successes       int
	requests        int
	lastFailureTime time.Time
}

// NewCircuitBreaker returns a closed breaker with default thresholds:
// trip at a 50% error rate over at least 10 requests, cool down for 30s,
// probe with up to 3 half-open requests.
func NewCircuitBreaker() *CircuitBreaker {
	return &CircuitBreaker{
		errorThreshold: 0.5,
		minRequests:    10,
		cooldown:       30 * time.Second,
		halfOpenMax:    3,
		state:          BreakerClosed,
	}
}

// Call runs fn under the breaker policy.
func (cb *CircuitBreaker) Call(fn func() error) error {
	if fn == nil {
		return nil
	}

	cb.mu.Lock()
	if cb.state == BreakerOpen {
		if time.Since(cb.lastFailureTime) >= cb.cooldown {
			cb.state = BreakerHalfOpen
			cb.resetCountersLocked()
		} else {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
	}

	if cb.state == BreakerHalfOpen && cb.requests >= cb.halfOpenMax {
		cb.mu.Unlock()
		return errHalfOpenTooManyRequests
	}
	cb.mu.Unlock()

	callErr := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.requests++

	if callErr != nil {
		cb.failures++

		if cb.state == BreakerHalfOpen {
			cb.tripLocked()
		} else if cb.requests >= cb.minRequests &&
			float64(cb.failures)/float64(cb.requests) >= cb.errorThreshold {
			cb.tripLocked()
		}

		return callErr
	}

	cb.successes++

	if cb.state == BreakerHalfOpen && cb.successes >= cb.halfOpenMax {
		cb.state = BreakerClosed
		cb.resetCountersLocked()
	}

	return nil
}

// State reports the current breaker state.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) tripLocked() {
	cb.state = BreakerOpen
	cb.lastFailureTime = time.Now()
	cb.resetCountersLocked()
}

func (cb *CircuitBreaker) resetCountersLocked() {
	cb.failures = 0
	cb.successes = 0
	cb.requests = 0
}
