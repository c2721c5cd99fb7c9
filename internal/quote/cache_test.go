package quote

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
)

type countingSource struct {
	price int64
	err   error
	calls int
}

func (s *countingSource) Fetch(_ context.Context, instrument Instrument) (int64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.price, nil
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestCachedSourceReadThrough(t *testing.T) {
	_, client := newTestRedis(t)
	upstream := &countingSource{price: 3_000_000}
	cached := NewCachedSource(upstream, client, time.Minute, testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		price, err := cached.Fetch(ctx, InstrumentAU)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if price != 3_000_000 {
			t.Fatalf("expected 3000000, got %d", price)
		}
	}

	if upstream.calls != 1 {
		t.Fatalf("expected exactly one upstream call, got %d", upstream.calls)
	}
}

func TestCachedSourceExpiry(t *testing.T) {
	mr, client := newTestRedis(t)
	upstream := &countingSource{price: 42}
	cached := NewCachedSource(upstream, client, time.Minute, testLogger())
	ctx := context.Background()

	if _, err := cached.Fetch(ctx, InstrumentXAU); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := cached.Fetch(ctx, InstrumentXAU); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upstream.calls != 2 {
		t.Fatalf("expected refetch after TTL, got %d upstream calls", upstream.calls)
	}
}

func TestCachedSourceDoesNotCacheFailures(t *testing.T) {
	_, client := newTestRedis(t)
	upstream := &countingSource{err: NewError(InstrumentUSD, ErrorKindFetch, fmt.Errorf("down"))}
	cached := NewCachedSource(upstream, client, time.Minute, testLogger())
	ctx := context.Background()

	if _, err := cached.Fetch(ctx, InstrumentUSD); err == nil {
		t.Fatal("expected error from upstream")
	}

	upstream.err = nil
	upstream.price = 70_000

	price, err := cached.Fetch(ctx, InstrumentUSD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 70_000 {
		t.Fatalf("expected fresh price after recovery, got %d", price)
	}
	if upstream.calls != 2 {
		t.Fatalf("failures must not be cached, got %d upstream calls", upstream.calls)
	}
}

func TestCachedSourceWithoutRedisIsPassThrough(t *testing.T) {
	upstream := &countingSource{price: 5}
	cached := NewCachedSource(upstream, nil, time.Minute, testLogger())

	for i := 0; i < 2; i++ {
		if _, err := cached.Fetch(context.Background(), InstrumentAU); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if upstream.calls != 2 {
		t.Fatalf("expected pass-through without redis, got %d calls", upstream.calls)
	}
}

func TestCachedSourceSurvivesRedisOutage(t *testing.T) {
	mr, client := newTestRedis(t)
	upstream := &countingSource{price: 9}
	cached := NewCachedSource(upstream, client, time.Minute, testLogger())

	mr.Close()

	price, err := cached.Fetch(context.Background(), InstrumentAU)
	if err != nil {
		t.Fatalf("cache outage must degrade to direct fetch, got %v", err)
	}
	if price != 9 {
		t.Fatalf("expected 9, got %d", price)
	}
}
