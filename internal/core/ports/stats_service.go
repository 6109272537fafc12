package ports

import "context"

// PoolStats is a snapshot of the connection pool.
type PoolStats struct {
	MaxConns      int32
	TotalConns    int32
	AcquiredConns int32
	IdleConns     int32
}

// RedisStats reports the rate limiter backend. Status is "ok",
// "unavailable" or "disabled".
type RedisStats struct {
	Status           string
	ConnectedClients string
	UsedMemory       string
	UptimeSeconds    string
}

// SystemStats is returned by the admin stats endpoint.
type SystemStats struct {
	Users int64
	Posts int64
	Pool  PoolStats
	Redis RedisStats
}

// StatsService gathers system statistics.
type StatsService interface {
	Stats(ctx context.Context) (*SystemStats, error)
}
