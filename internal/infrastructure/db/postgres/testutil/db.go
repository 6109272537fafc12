// Package testutil opens a Postgres pool for integration tests.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/haikudo/backend/internal/infrastructure/db/postgres/migrate"
)

// OpenPool opens a pool against PG_DSN with an empty public schema. Tests
// are skipped when PG_DSN is unset.
//
// It is destructive: it resets the public schema.
func OpenPool(t *testing.T, maxConns int32) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set; skipping Postgres tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		t.Fatalf("parse PG_DSN: %v", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("ping postgres: %v", err)
	}

	_, err = pool.Exec(ctx, `
		DROP SCHEMA IF EXISTS public CASCADE;
		CREATE SCHEMA public;
	`)
	if err != nil {
		t.Fatalf("reset schema: %v", err)
	}
	return pool
}

// OpenMigratedPool is OpenPool followed by applying every embedded migration.
func OpenMigratedPool(t *testing.T, maxConns int32) *pgxpool.Pool {
	t.Helper()

	pool := OpenPool(t, maxConns)

	steps, err := migrate.Embedded()
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := migrate.New(pool, steps, zerolog.Nop()).Up(ctx, 0); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return pool
}
