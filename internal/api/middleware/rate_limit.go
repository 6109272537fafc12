package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// StoreFactory builds the store backing one named limit of perMinute
// requests per client.
type StoreFactory func(name string, perMinute int) echomiddleware.RateLimiterStore

// MemoryStores is the StoreFactory used without Redis.
func MemoryStores(_ string, perMinute int) echomiddleware.RateLimiterStore {
	return NewMemoryStore(perMinute)
}

// NewMemoryStore returns a per-process limiter allowing perMinute requests
// per client, with bursts up to the same amount.
func NewMemoryStore(perMinute int) echomiddleware.RateLimiterStore {
	return echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     perMinute,
		ExpiresIn: 3 * time.Minute,
	})
}

// RateLimit limits requests per client IP. It is attached per route so each
// route keeps its own budget.
func RateLimit(store echomiddleware.RateLimiterStore, log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "could not identify client").SetInternal(err)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			if err != nil {
				log.Error().Err(err).Str("client_ip", identifier).Msg("rate limiter store failed")
			}
			c.Response().Header().Set("Retry-After", strconv.Itoa(60))
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}
