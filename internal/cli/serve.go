package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/haikudo/backend/internal/api"
	"github.com/haikudo/backend/internal/api/middleware"
	"github.com/haikudo/backend/internal/core/service"
	"github.com/haikudo/backend/internal/infrastructure/db/postgres"
	"github.com/haikudo/backend/internal/infrastructure/db/postgres/migrate"
	redisdb "github.com/haikudo/backend/internal/infrastructure/db/redis"
	"github.com/haikudo/backend/pkg/logger"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	serviceName       = "haikudo-backend"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API on :PORT.

The schema must be at the latest migration unless DB_MIGRATE_ON_START=true,
in which case pending migrations are applied first. A schema that disagrees
with the known migrations stops startup before the port is bound.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rootOpts)
		},
	}
}

func runServe(ctx context.Context, opts *RootOptions) error {
	cfg, err := opts.loadConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   levelOr(opts.LogLevel, cfg.LogLevel),
		Pretty:  cfg.Debug,
		Service: serviceName,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB.URL, postgres.PoolOptions{MaxConns: cfg.DB.MaxConns})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := prepareSchema(ctx, pool, cfg.DB.MigrateOnStart, log); err != nil {
		return err
	}

	sessions := postgres.NewSessionManager(pool, postgres.SessionOptions{
		AcquireTimeout: cfg.DB.AcquireTimeout,
		HealthTimeout:  cfg.DB.HealthTimeout,
	}, log)

	deps := api.Deps{
		Config:   cfg,
		Logger:   log,
		Sessions: sessions,
		Users:    service.NewUserService(sessions, log),
		Posts:    service.NewPostService(sessions, log),
	}

	var prober service.RedisProber
	if cfg.Redis.URL != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{URL: cfg.Redis.URL})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, rate limiting per process")
		} else {
			defer client.Close()
			deps.RateStores = func(name string, perMinute int) echomiddleware.RateLimiterStore {
				return redisdb.NewRateLimitStore(client, name, perMinute, time.Minute,
					middleware.NewMemoryStore(perMinute), log)
			}
			prober = redisdb.NewProber(client)
		}
	}
	deps.Stats = service.NewStatsService(sessions, sessions, prober)

	e, err := api.NewRouter(deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Bool("debug", cfg.Debug).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// prepareSchema refuses to serve on drift, and on pending migrations unless
// migrateOnStart is set.
func prepareSchema(ctx context.Context, db migrate.DB, migrateOnStart bool, log zerolog.Logger) error {
	m, err := newMigrator(db, log)
	if err != nil {
		return err
	}
	if migrateOnStart {
		n, err := m.Up(ctx, 0)
		if err != nil {
			return err
		}
		log.Info().Int("applied", n).Int64("version", m.Latest()).Msg("schema migrated")
		return nil
	}

	st, err := m.Check(ctx)
	if err != nil {
		return err
	}
	if st.Pending() {
		return fmt.Errorf("%w: schema at version %d, latest is %d (run `haikudo migrate up` or set DB_MIGRATE_ON_START=true)",
			migrate.ErrPending, st.Current, st.Latest)
	}
	return nil
}

