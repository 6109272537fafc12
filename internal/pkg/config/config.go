package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sethvargo/go-envconfig"
)

// Config is built once at startup and handed to the components that need
// it. Nothing mutates it afterwards.
type Config struct {
	Port      int    `env:"PORT, default=8000"`
	Debug     bool   `env:"DEBUG, default=false"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	SecretKey string `env:"SECRET_KEY, required"`

	// Token settings are validated and reported by /api/v1/info; no route
	// issues or checks tokens.
	Algorithm                string `env:"ALGORITHM, default=HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES, default=30"`

	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE, default=60"`
	CORSOrigins        []string `env:"CORS_ORIGINS, default=http://localhost:3000"`
	TrustedHosts       []string `env:"TRUSTED_HOSTS, default=localhost,127.0.0.1"`

	DB    DBConfig
	Redis RedisConfig
}

type DBConfig struct {
	URL            string        `env:"DATABASE_URL, required"`
	MaxConns       int32         `env:"DB_MAX_CONNS, default=10"`
	AcquireTimeout time.Duration `env:"DB_ACQUIRE_TIMEOUT, default=5s"`
	HealthTimeout  time.Duration `env:"DB_HEALTH_TIMEOUT, default=2s"`
	MigrateOnStart bool          `env:"DB_MIGRATE_ON_START, default=false"`
}

type RedisConfig struct {
	// URL is optional; without it rate limiting is per process.
	URL string `env:"REDIS_URL"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadDB reads only the database settings. The migrate commands use it so
// they run without the HTTP secrets.
func LoadDB(ctx context.Context, l envconfig.Lookuper) (*DBConfig, error) {
	if l == nil {
		l = envconfig.OsLookuper()
	}
	var db DBConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &db, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &db, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AccessTokenTTL is AccessTokenExpireMinutes as a duration.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c *Config) validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		errs = append(errs, errors.New("SECRET_KEY must not be blank"))
	}
	if jwt.GetSigningMethod(c.Algorithm) == nil {
		errs = append(errs, fmt.Errorf("ALGORITHM %q is not a known signing method", c.Algorithm))
	}
	if c.AccessTokenExpireMinutes <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.RateLimitPerMinute <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must be positive"))
	}
	if c.DB.MaxConns <= 0 {
		errs = append(errs, errors.New("DB_MAX_CONNS must be positive"))
	}
	if c.DB.AcquireTimeout <= 0 {
		errs = append(errs, errors.New("DB_ACQUIRE_TIMEOUT must be positive"))
	}
	if c.DB.HealthTimeout <= 0 {
		errs = append(errs, errors.New("DB_HEALTH_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}
