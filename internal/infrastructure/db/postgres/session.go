package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/haikudo/backend/internal/api/metrics"
	"github.com/haikudo/backend/internal/core/domain"
	"github.com/haikudo/backend/internal/core/ports"
)

const (
	defaultAcquireTimeout = 5 * time.Second
	defaultHealthTimeout  = 2 * time.Second

	// txEndTimeout bounds commit and rollback, which run detached from the
	// caller's cancellation.
	txEndTimeout = 5 * time.Second
)

type SessionOptions struct {
	AcquireTimeout time.Duration
	HealthTimeout  time.Duration
}

// SessionManager hands out one transaction-scoped session per unit of work.
// It is safe for concurrent use.
type SessionManager struct {
	pool   *pgxpool.Pool
	opts   SessionOptions
	logger zerolog.Logger
}

func NewSessionManager(pool *pgxpool.Pool, opts SessionOptions, logger zerolog.Logger) *SessionManager {
	if opts.AcquireTimeout <= 0 {
		opts.AcquireTimeout = defaultAcquireTimeout
	}
	if opts.HealthTimeout <= 0 {
		opts.HealthTimeout = defaultHealthTimeout
	}
	return &SessionManager{pool: pool, opts: opts, logger: logger}
}

// WithSession runs fn inside a READ COMMITTED transaction on a pooled
// connection. The transaction commits when fn returns nil and rolls back
// when fn returns an error or panics; a panic is re-raised after rollback.
// The connection goes back to the pool on every path.
func (m *SessionManager) WithSession(ctx context.Context, fn func(ctx context.Context, s ports.Session) error) error {
	conn, err := m.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrStoreUnavailable, err)
	}

	defer func() {
		if p := recover(); p != nil {
			m.rollback(ctx, tx)
			metrics.SessionTransactionsTotal.WithLabelValues("panic").Inc()
			panic(p)
		}
	}()

	if err := fn(ctx, newSession(tx)); err != nil {
		m.rollback(ctx, tx)
		metrics.SessionTransactionsTotal.WithLabelValues("rollback").Inc()
		return err
	}

	endCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), txEndTimeout)
	defer cancel()
	if err := tx.Commit(endCtx); err != nil {
		metrics.SessionTransactionsTotal.WithLabelValues("commit_failed").Inc()
		return fmt.Errorf("%w: commit: %v", domain.ErrStoreUnavailable, err)
	}
	metrics.SessionTransactionsTotal.WithLabelValues("commit").Inc()
	return nil
}

// Ping checks that the store answers within the health timeout.
func (m *SessionManager) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.opts.HealthTimeout)
	defer cancel()

	if err := m.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (m *SessionManager) PoolStats() ports.PoolStats {
	st := m.pool.Stat()
	return ports.PoolStats{
		MaxConns:      st.MaxConns(),
		TotalConns:    st.TotalConns(),
		AcquiredConns: st.AcquiredConns(),
		IdleConns:     st.IdleConns(),
	}
}

func (m *SessionManager) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	acqCtx, cancel := context.WithTimeout(ctx, m.opts.AcquireTimeout)
	defer cancel()

	conn, err := m.pool.Acquire(acqCtx)
	if err == nil {
		return conn, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	st := m.pool.Stat()
	if errors.Is(err, context.DeadlineExceeded) && st.AcquiredConns() >= st.MaxConns() {
		metrics.SessionPoolExhaustedTotal.Inc()
		m.logger.Warn().
			Int32("max_conns", st.MaxConns()).
			Dur("acquire_timeout", m.opts.AcquireTimeout).
			Msg("connection pool exhausted")
		return nil, domain.ErrPoolExhausted
	}
	return nil, fmt.Errorf("%w: acquire connection: %v", domain.ErrStoreUnavailable, err)
}

func (m *SessionManager) rollback(ctx context.Context, tx pgx.Tx) {
	endCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), txEndTimeout)
	defer cancel()

	if err := tx.Rollback(endCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		m.logger.Error().Err(err).Msg("rollback failed")
	}
}

// session binds the repositories to one transaction.
type session struct {
	tx    pgx.Tx
	users *userRepository
	posts *postRepository
}

func newSession(tx pgx.Tx) *session {
	return &session{
		tx:    tx,
		users: &userRepository{q: tx},
		posts: &postRepository{q: tx},
	}
}

func (s *session) Users() ports.UserRepository { return s.users }
func (s *session) Posts() ports.PostRepository { return s.posts }

// RoundTrip executes a trivial query through the session's transaction.
func (s *session) RoundTrip(ctx context.Context) error {
	var one int
	if err := s.tx.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("%w: round trip: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}
