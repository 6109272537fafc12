package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/haikudo/backend/internal/infrastructure/db/postgres"
	"github.com/haikudo/backend/internal/infrastructure/db/postgres/migrate"
	"github.com/haikudo/backend/internal/pkg/config"
	"github.com/haikudo/backend/pkg/logger"
)

// NewMigrateCommand creates the migrate command and its subcommands.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long: `Apply or revert the embedded schema migrations.

Only DATABASE_URL (and the DB_* settings) are read from the environment.

Example:
  haikudo migrate up
  haikudo migrate up 1
  haikudo migrate down 0
  haikudo migrate version`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up [target]",
		Short: "Apply pending migrations up to target (default: latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target int64
			if len(args) == 1 {
				t, err := parseTarget(args[0])
				if err != nil {
					return err
				}
				target = t
			}
			return withMigrator(cmd.Context(), rootOpts, func(ctx context.Context, m *migrate.Migrator) error {
				n, err := m.Up(ctx, target)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down <target>",
		Short: "Revert migrations until the schema is at target (0 reverts everything)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseTarget(args[0])
			if err != nil {
				return err
			}
			return withMigrator(cmd.Context(), rootOpts, func(ctx context.Context, m *migrate.Migrator) error {
				n, err := m.Down(ctx, target)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reverted %d migration(s)\n", n)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current and latest schema versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), rootOpts, func(ctx context.Context, m *migrate.Migrator) error {
				st, err := m.Check(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "current: %d\nlatest:  %d\n", st.Current, st.Latest)
				if st.Pending() {
					fmt.Fprintln(cmd.OutOrStdout(), "pending: yes")
				}
				return nil
			})
		},
	})

	return cmd
}

func parseTarget(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid target version %q: must be a non-negative integer", s)
	}
	return v, nil
}

func withMigrator(ctx context.Context, opts *RootOptions, fn func(ctx context.Context, m *migrate.Migrator) error) error {
	dbCfg, err := config.LoadDB(ctx, opts.Lookuper)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: levelOr(opts.LogLevel, "info"), Pretty: true})

	pool, err := postgres.NewPool(ctx, dbCfg.URL, postgres.PoolOptions{MaxConns: 1})
	if err != nil {
		return err
	}
	defer pool.Close()

	m, err := newMigrator(pool, log)
	if err != nil {
		return err
	}
	return fn(ctx, m)
}

func newMigrator(db migrate.DB, log zerolog.Logger) (*migrate.Migrator, error) {
	steps, err := migrate.Embedded()
	if err != nil {
		return nil, err
	}
	return migrate.New(db, steps, log), nil
}
