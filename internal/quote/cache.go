package quote

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const defaultCacheTTL = time.Minute

// CachedSource is a read-through redis cache in front of another Source.
// Cache failures are logged and absorbed: the decorator degrades to a
// direct fetch rather than surfacing infrastructure errors to the dialog.
type CachedSource struct {
	next   Source
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewCachedSource wraps next with a redis cache. A nil client disables
// caching and the decorator becomes a transparent pass-through.
func NewCachedSource(next Source, client *redis.Client, ttl time.Duration, log *slog.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	if log == nil {
		log = slog.Default()
	}

	return &CachedSource{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Fetch returns the cached price when present, otherwise delegates and
// stores the fresh value. Only successful fetches are cached.
func (s *CachedSource) Fetch(ctx context.Context, instrument Instrument) (int64, error) {
	if s.client == nil {
		return s.next.Fetch(ctx, instrument)
	}

	key := cacheKey(instrument)

	cached, err := s.client.Get(ctx, key).Result()
	if err == nil {
		price, parseErr := strconv.ParseInt(cached, 10, 64)
		if parseErr == nil {
			return price, nil
		}
		s.log.Warn("discarding malformed cached quote", slog.String("key", key), slog.Any("error", parseErr))
	} else if err != redis.Nil {
		s.log.Warn("quote cache read failed", slog.String("key", key), slog.Any("error", err))
	}

	price, fetchErr := s.next.Fetch(ctx, instrument)
	if fetchErr != nil {
		return 0, fetchErr
	}

	if err := s.client.Set(ctx, key, strconv.FormatInt(price, 10), s.ttl).Err(); err != nil {
		s.log.Warn("quote cache write failed", slog.String("key", key), slog.Any("error", err))
	}

	return price, nil
}

func cacheKey(instrument Instrument) string {
	return fmt.Sprintf("quote:%s", instrument)
}
