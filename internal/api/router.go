package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/haikudo/backend/internal/api/docs"
	"github.com/haikudo/backend/internal/api/handler"
	"github.com/haikudo/backend/internal/api/middleware"
	"github.com/haikudo/backend/internal/core/ports"
	"github.com/haikudo/backend/internal/pkg/config"
)

const (
	appName    = "Haikudo Backend API"
	appService = "haikudo-backend"
	appVersion = "1.0.0"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Sessions ports.SessionManager
	Users    ports.UserService
	Posts    ports.PostService
	Stats    ports.StatsService

	// RateStores builds one store per rate-limited route; nil means
	// per-process limiting.
	RateStores middleware.StoreFactory
	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	cfg := d.Config
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if d.RateStores == nil {
		d.RateStores = middleware.MemoryStores
	}
	limit := func(name string, perMinute int) echo.MiddlewareFunc {
		return middleware.RateLimit(d.RateStores(name, perMinute), d.Logger)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	metricsMW, err := echoprometheus.MiddlewareConfig{
		Namespace:  "haikudo",
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}.ToMiddleware()
	if err != nil {
		return nil, fmt.Errorf("http metrics: %w", err)
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(middleware.SecurityHeaders(cfg.Debug))
	e.Use(middleware.CORS(cfg.CORSOrigins, cfg.Debug))
	if !cfg.Debug {
		e.Use(middleware.TrustedHosts(cfg.TrustedHosts))
	}
	e.Use(metricsMW)

	// --- Dependencies ---
	info := handler.AppInfo{
		Name:           appName,
		Service:        appService,
		Version:        appVersion,
		Environment:    environment(cfg.Debug),
		Algorithm:      cfg.Algorithm,
		AccessTokenTTL: cfg.AccessTokenTTL(),
	}
	if cfg.Debug {
		info.DocsURL = "/docs/index.html"
	}
	systemHandler := handler.NewSystemHandler(d.Sessions, d.Stats, info)
	userHandler := handler.NewUserHandler(d.Users)
	postHandler := handler.NewPostHandler(d.Posts)

	// --- System routes ---
	// /health and /metrics are polled by infrastructure and stay unlimited.
	e.GET("/", systemHandler.Banner, limit("banner", 10))
	e.GET("/health", systemHandler.Health)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	if cfg.Debug {
		e.GET("/docs/*", echoSwagger.WrapHandler, limit("docs", cfg.RateLimitPerMinute))
	}

	v1 := e.Group("/api/v1")
	v1.GET("/test-db", systemHandler.TestDB, limit("test-db", 5))
	v1.GET("/info", systemHandler.Info, limit("info", 10))
	v1.GET("/admin/stats", systemHandler.Stats, limit("admin-stats", 10))

	// --- Users ---
	users := v1.Group("/users")
	users.POST("", userHandler.Create, limit("users-create", 5))
	users.GET("", userHandler.List, limit("users-list", 20))
	users.GET("/:id", userHandler.Get, limit("users-get", 30))
	users.PUT("/:id", userHandler.Update, limit("users-update", 10))
	users.DELETE("/:id", userHandler.Delete, limit("users-delete", 5))

	// --- Posts ---
	posts := v1.Group("/posts")
	posts.POST("", postHandler.Create, limit("posts-create", 10))
	posts.GET("", postHandler.List, limit("posts-list", 30))
	posts.GET("/user/:user_id", postHandler.ListByUser, limit("posts-by-user", 30))
	posts.GET("/:id", postHandler.Get, limit("posts-get", 50))
	posts.PUT("/:id", postHandler.Update, limit("posts-update", 10))
	posts.DELETE("/:id", postHandler.Delete, limit("posts-delete", 5))

	return e, nil
}

func environment(debug bool) string {
	if debug {
		return "development"
	}
	return "production"
}
