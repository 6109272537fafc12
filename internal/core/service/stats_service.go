package service

import (
	"context"

	"github.com/haikudo/backend/internal/core/ports"
)

// PoolStatter reports connection pool usage.
type PoolStatter interface {
	PoolStats() ports.PoolStats
}

// RedisProber reports the state of the rate limiter backend.
type RedisProber interface {
	Probe(ctx context.Context) ports.RedisStats
}

type StatsService struct {
	sessions ports.SessionManager
	pool     PoolStatter
	redis    RedisProber
}

// NewStatsService returns a StatsService. redis may be nil when no redis
// backend is configured.
func NewStatsService(sessions ports.SessionManager, pool PoolStatter, redis RedisProber) *StatsService {
	return &StatsService{sessions: sessions, pool: pool, redis: redis}
}

// Stats counts users and posts in a single session, so both numbers come
// from the same transaction.
func (s *StatsService) Stats(ctx context.Context) (*ports.SystemStats, error) {
	stats := &ports.SystemStats{}
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		var err error
		if stats.Users, err = sess.Users().Count(ctx); err != nil {
			return err
		}
		stats.Posts, err = sess.Posts().Count(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.pool != nil {
		stats.Pool = s.pool.PoolStats()
	}
	if s.redis != nil {
		stats.Redis = s.redis.Probe(ctx)
	} else {
		stats.Redis = ports.RedisStats{Status: "disabled"}
	}
	return stats, nil
}
