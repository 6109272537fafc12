package ports

import "context"

// SessionManager hands out scoped units of work. Each call to WithSession runs
// fn inside exactly one database transaction: it commits when fn returns nil
// and rolls back otherwise. The underlying connection is always returned to
// the pool.
type SessionManager interface {
	WithSession(ctx context.Context, fn func(ctx context.Context, s Session) error) error
	// Ping checks that the store is reachable, bounded by a short timeout.
	Ping(ctx context.Context) error
}

// Session exposes the entity repositories bound to one transaction.
type Session interface {
	Users() UserRepository
	Posts() PostRepository
	// RoundTrip executes a trivial query inside the session's transaction.
	RoundTrip(ctx context.Context) error
}
