package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/haikudo/backend/internal/api/metrics"
)

const rateLimitTimeout = 200 * time.Millisecond

// Limiter decides whether a request from identifier may pass. It matches
// echo's middleware.RateLimiterStore.
type Limiter interface {
	Allow(identifier string) (bool, error)
}

// RateLimitStore is a fixed-window counter shared by every instance through
// Redis. Key format: ratelimit:<name>:<identifier>:<window index>
//
// When Redis fails the decision is delegated to fallback, so an outage
// degrades to per-process limiting instead of rejecting traffic.
type RateLimitStore struct {
	client   *redis.Client
	name     string
	limit    int64
	window   time.Duration
	fallback Limiter
	log      zerolog.Logger
	now      func() time.Time
}

// NewRateLimitStore allows limit requests per window for each identifier.
// name separates the counters of stores sharing one Redis.
func NewRateLimitStore(client *redis.Client, name string, limit int, window time.Duration, fallback Limiter, log zerolog.Logger) *RateLimitStore {
	return &RateLimitStore{
		client:   client,
		name:     name,
		limit:    int64(limit),
		window:   window,
		fallback: fallback,
		log:      log.With().Str("limit", name).Logger().Sample(&zerolog.BasicSampler{N: 100}),
		now:      time.Now,
	}
}

// Allow implements echo's middleware.RateLimiterStore.
func (s *RateLimitStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), rateLimitTimeout)
	defer cancel()

	key := s.key(identifier)
	var count *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, s.window)
		return nil
	})
	if err != nil {
		metrics.RateLimitFallbackTotal.Inc()
		s.log.Warn().Err(err).Msg("redis rate limit failed, using in-memory limiter")
		return s.fallback.Allow(identifier)
	}
	return count.Val() <= s.limit, nil
}

func (s *RateLimitStore) key(identifier string) string {
	window := s.now().UnixNano() / int64(s.window)
	return fmt.Sprintf("ratelimit:%s:%s:%d", s.name, identifier, window)
}
