package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MemoryLimiter is the process-local Limiter used for single-instance runs.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	log     *slog.Logger
}

// NewMemoryLimiter returns an in-memory sliding-window limiter.
func NewMemoryLimiter(log *slog.Logger) *MemoryLimiter {
	if log == nil {
		log = slog.Default()
	}

	return &MemoryLimiter{
		buckets: make(map[string][]time.Time),
		log:     log,
	}
}

// Check enforces a sliding-window limit for the provided key.
func (m *MemoryLimiter) Check(_ context.Context, key string, limit int, window time.Duration) (*Result, error) {
	now := time.Now()
	windowStart := now.Add(-window)

	m.mu.Lock()
	defer m.mu.Unlock()

	recent := keepRecent(m.buckets[key], windowStart)
	count := len(recent)

	allowed := count < limit
	if allowed {
		recent = append(recent, now)
		count++
	}
	m.buckets[key] = recent

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	result := &Result{
		Allowed:   allowed,
		Remaining: remaining,
		ResetAt:   windowStart.Add(window),
	}

	if !allowed {
		return result, ErrLimitExceeded
	}

	return result, nil
}

// Cleanup drops buckets with no activity since the cutoff. The owner is
// expected to call it periodically.
func (m *MemoryLimiter) Cleanup(maxAge time.Duration) {
	if maxAge <= 0 {
		return
	}

	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, requests := range m.buckets {
		if len(requests) == 0 || requests[len(requests)-1].Before(cutoff) {
			delete(m.buckets, key)
		}
	}
}

func keepRecent(requests []time.Time, cutoff time.Time) []time.Time {
	kept := requests[:0]
	for _, ts := range requests {
		if !ts.Before(cutoff) {
			kept = append(kept, ts)
		}
	}

	return kept
}
