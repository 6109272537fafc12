package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/haikudo/backend/internal/core/ports"
)

const defaultTimeout = 5 * time.Second

// Config captures the settings for establishing a Redis connection.
type Config struct {
	URL     string
	Timeout time.Duration
}

// Connect initialises a Redis client from a redis:// URL and validates
// connectivity with a ping. A default timeout is applied when none is
// provided.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = timeout
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// Prober reports the state of a Redis server for the admin stats endpoint.
type Prober struct {
	client  *redis.Client
	timeout time.Duration
}

func NewProber(client *redis.Client) *Prober {
	return &Prober{client: client, timeout: 2 * time.Second}
}

// Probe never fails: an unreachable server is reported as "unavailable".
func (p *Prober) Probe(ctx context.Context) ports.RedisStats {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	info := p.client.InfoMap(ctx, "server", "clients", "memory")
	if info.Err() != nil {
		return ports.RedisStats{Status: "unavailable"}
	}
	return ports.RedisStats{
		Status:           "ok",
		ConnectedClients: info.Item("Clients", "connected_clients"),
		UsedMemory:       info.Item("Memory", "used_memory_human"),
		UptimeSeconds:    info.Item("Server", "uptime_in_seconds"),
	}
}
