package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haikudo/backend/internal/core/domain"
	"github.com/haikudo/backend/internal/core/ports"
	"github.com/haikudo/backend/internal/infrastructure/db/postgres"
	"github.com/haikudo/backend/internal/infrastructure/db/postgres/testutil"
)

func newManager(t *testing.T, maxConns int32, opts postgres.SessionOptions) *postgres.SessionManager {
	t.Helper()
	pool := testutil.OpenMigratedPool(t, maxConns)
	return postgres.NewSessionManager(pool, opts, zerolog.Nop())
}

func createUser(t *testing.T, ctx context.Context, m *postgres.SessionManager, email string) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, PasswordHash: "hash", IsActive: true}
	err := m.WithSession(ctx, func(ctx context.Context, s ports.Session) error {
		return s.Users().Create(ctx, u)
	})
	require.NoError(t, err)
	return u
}

func TestSession_RollbackLeavesNoRows(t *testing.T) {
	m := newManager(t, 0, postgres.SessionOptions{})
	ctx := context.Background()
	boom := errors.New("boom")

	var id uuid.UUID
	err := m.WithSession(ctx, func(ctx context.Context, s ports.Session) error {
		u := &domain.User{Email: "rollback@x.com", PasswordHash: "hash", IsActive: true}
		if err := s.Users().Create(ctx, u); err != nil {
			return err
		}
		id = u.ID
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NotEqual(t, uuid.Nil, id)

	err = m.WithSession(ctx, func(ctx context.Context, s ports.Session) error {
		_, err := s.Users().GetByID(ctx, id)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSession_PanicRollsBackAndRepanics(t *testing.T) {
	m := newManager(t, 1, postgres.SessionOptions{AcquireTimeout: time.Second})
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = m.WithSession(ctx, func(ctx context.Context, s ports.Session) error {
			u := &domain.User{Email: "panic@x.com", PasswordHash: "hash", IsActive: true}
			if err := s.Users().Create(ctx, u); err != nil {
				return err
			}
			panic("mid-transaction")
		})
	})

	// The single connection went back to the pool and nothing was committed.
	var n int64
	err := m.WithSession(ctx, func(ctx context.Context, s ports.Session) error {
		var err error
		n, err = s.Users().Count(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestSession_PoolExhausted(t *testing.T) {
	m := newManager(t, 1, postgres.SessionOptions{AcquireTimeout: 200 * time.Millisecond})
	ctx := context.Background()

	held := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = m.WithSession(ctx, func(ctx context.Context, s ports.Session) error {
			close(held)
			<-release
			return nil
		})
	}()

	<-held
	err := m.WithSession(ctx, func(ctx context.Context, s ports.Session) error { return nil })
	assert.ErrorIs(t, err, domain.ErrPoolExhausted)

	close(release)
	wg.Wait()

	err = m.WithSession(ctx, func(ctx context.Context, s ports.Session) error { return s.RoundTrip(ctx) })
	assert.NoError(t, err)
}

func TestSession_CanceledContextStillEndsTransaction(t *testing.T) {
	m := newManager(t, 1, postgres.SessionOptions{AcquireTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	err := m.WithSession(ctx, func(ctx context.Context, s ports.Session) error {
		cancel()
		return ctx.Err()
	})
	require.ErrorIs(t, err, context.Canceled)

	st := m.PoolStats()
	assert.Equal(t, int32(0), st.AcquiredConns)

	err = m.WithSession(context.Background(), func(ctx context.Context, s ports.Session) error {
		return s.RoundTrip(ctx)
	})
	assert.NoError(t, err)
}

func TestSession_Ping(t *testing.T) {
	m := newManager(t, 0, postgres.SessionOptions{})
	assert.NoError(t, m.Ping(context.Background()))
	assert.Greater(t, m.PoolStats().MaxConns, int32(0))
}
