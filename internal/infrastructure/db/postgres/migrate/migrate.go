// Package migrate keeps the relational schema and its version ledger in
// step. Every migration and the ledger row recording it are written in the
// same transaction.
package migrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/haikudo/backend/internal/api/metrics"
)

// lockKey serialises migrators across processes.
const lockKey int64 = 0x6861696b75646f

var (
	// ErrDrift means the ledger records versions the code does not know, or
	// does not form a contiguous chain from version 1.
	ErrDrift = errors.New("migration drift between code and database")
	// ErrPending means the schema is behind the latest known version.
	ErrPending = errors.New("pending migrations")
)

const ledgerDDL = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    BIGINT PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// DB is satisfied by *pgxpool.Pool and *pgx.Conn.
type DB interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Status describes the ledger against the known steps.
type Status struct {
	Current int64
	Latest  int64
}

// Pending reports whether steps remain to be applied.
func (s Status) Pending() bool { return s.Current < s.Latest }

type Migrator struct {
	db     DB
	steps  []Step
	logger zerolog.Logger
}

// New returns a Migrator over steps, which must come from Load or Embedded.
func New(db DB, steps []Step, logger zerolog.Logger) *Migrator {
	return &Migrator{db: db, steps: steps, logger: logger}
}

// Latest is the highest known version.
func (m *Migrator) Latest() int64 {
	return int64(len(m.steps))
}

// CurrentVersion returns the highest applied version, or 0 for an empty
// ledger. A ledger that has drifted from the known steps yields ErrDrift.
func (m *Migrator) CurrentVersion(ctx context.Context) (int64, error) {
	var current int64
	err := m.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		current, err = m.verify(ctx, tx)
		return err
	})
	return current, err
}

// Check verifies the ledger and reports how far it is behind. Drift is
// returned as ErrDrift; a schema that is merely behind is not an error.
func (m *Migrator) Check(ctx context.Context) (Status, error) {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{Current: current, Latest: m.Latest()}, nil
}

// Up applies pending steps in ascending order until target is reached.
// A target of 0 means the latest version. It returns the number of steps
// applied.
func (m *Migrator) Up(ctx context.Context, target int64) (int, error) {
	if target == 0 {
		target = m.Latest()
	}
	if target < 0 || target > m.Latest() {
		return 0, fmt.Errorf("target version %d out of range [0, %d]", target, m.Latest())
	}

	applied := 0
	for {
		done, err := m.step(ctx, func(tx pgx.Tx, current int64) (bool, error) {
			if current >= target {
				return true, nil
			}
			s := m.steps[current]
			if err := execScript(ctx, tx, s.Up); err != nil {
				return false, fmt.Errorf("apply %d_%s: %w", s.Version, s.Name, err)
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, s.Version, s.Name)
			if err != nil {
				return false, fmt.Errorf("record %d_%s: %w", s.Version, s.Name, err)
			}
			m.logger.Info().Int64("version", s.Version).Str("name", s.Name).Msg("migration applied")
			return false, nil
		})
		if err != nil {
			return applied, err
		}
		if done {
			return applied, nil
		}
		applied++
		metrics.MigrationsAppliedTotal.WithLabelValues("up").Inc()
	}
}

// Down reverts applied steps in descending order until the ledger is at
// target. It returns the number of steps reverted.
func (m *Migrator) Down(ctx context.Context, target int64) (int, error) {
	if target < 0 || target > m.Latest() {
		return 0, fmt.Errorf("target version %d out of range [0, %d]", target, m.Latest())
	}

	reverted := 0
	for {
		done, err := m.step(ctx, func(tx pgx.Tx, current int64) (bool, error) {
			if current <= target {
				return true, nil
			}
			s := m.steps[current-1]
			if err := execScript(ctx, tx, s.Down); err != nil {
				return false, fmt.Errorf("revert %d_%s: %w", s.Version, s.Name, err)
			}
			if _, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, s.Version); err != nil {
				return false, fmt.Errorf("unrecord %d_%s: %w", s.Version, s.Name, err)
			}
			m.logger.Info().Int64("version", s.Version).Str("name", s.Name).Msg("migration reverted")
			return false, nil
		})
		if err != nil {
			return reverted, err
		}
		if done {
			return reverted, nil
		}
		reverted++
		metrics.MigrationsAppliedTotal.WithLabelValues("down").Inc()
	}
}

// step runs fn in its own locked transaction with the verified current
// version. fn reports done=true when there is nothing left to do.
func (m *Migrator) step(ctx context.Context, fn func(tx pgx.Tx, current int64) (bool, error)) (bool, error) {
	var done bool
	err := m.inTx(ctx, func(tx pgx.Tx) error {
		current, err := m.verify(ctx, tx)
		if err != nil {
			return err
		}
		done, err = fn(tx, current)
		return err
	})
	return done, err
}

// inTx opens a transaction holding the migration advisory lock and makes
// sure the ledger table exists.
func (m *Migrator) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginTxFunc(ctx, m.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, lockKey); err != nil {
			return fmt.Errorf("acquire migration lock: %w", err)
		}
		if _, err := tx.Exec(ctx, ledgerDDL); err != nil {
			return fmt.Errorf("create ledger: %w", err)
		}
		return fn(tx)
	})
}

// verify reads the ledger and checks that it is exactly the known steps
// 1..n, returning n.
func (m *Migrator) verify(ctx context.Context, tx pgx.Tx) (int64, error) {
	rows, err := tx.Query(ctx, `SELECT version, name FROM schema_migrations ORDER BY version`)
	if err != nil {
		return 0, fmt.Errorf("read ledger: %w", err)
	}
	defer rows.Close()

	var current int64
	for rows.Next() {
		var (
			version int64
			name    string
		)
		if err := rows.Scan(&version, &name); err != nil {
			return 0, fmt.Errorf("read ledger: %w", err)
		}
		if version != current+1 {
			return 0, fmt.Errorf("%w: ledger jumps from version %d to %d", ErrDrift, current, version)
		}
		if version > m.Latest() {
			return 0, fmt.Errorf("%w: ledger has version %d (%s) but latest known step is %d", ErrDrift, version, name, m.Latest())
		}
		if known := m.steps[version-1].Name; known != name {
			return 0, fmt.Errorf("%w: ledger version %d is %q, code has %q", ErrDrift, version, name, known)
		}
		current = version
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("read ledger: %w", err)
	}
	return current, nil
}

// execScript runs a multi-statement script through the simple protocol.
func execScript(ctx context.Context, tx pgx.Tx, script string) error {
	_, err := tx.Exec(ctx, script)
	return err
}
