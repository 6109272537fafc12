package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haikudo/backend/internal/core/ports"
)

const healthTimeout = 3 * time.Second

// AppInfo is the static description of the running service.
type AppInfo struct {
	Name        string
	Service     string
	Version     string
	Environment string
	// DocsURL is empty when the API docs are not served.
	DocsURL string

	Algorithm      string
	AccessTokenTTL time.Duration
}

// SystemHandler serves the banner, health, database test, info and admin
// stats routes.
type SystemHandler struct {
	sessions ports.SessionManager
	stats    ports.StatsService
	info     AppInfo
}

func NewSystemHandler(sessions ports.SessionManager, stats ports.StatsService, info AppInfo) *SystemHandler {
	return &SystemHandler{sessions: sessions, stats: stats, info: info}
}

// Banner handles GET /.
//
// @Summary      Liveness banner
// @Tags         system
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       / [get]
func (h *SystemHandler) Banner(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "Welcome to " + h.info.Name})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status       string                      `json:"status"`
	Service      string                      `json:"service"`
	Version      string                      `json:"version"`
	Environment  string                      `json:"environment"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Health handles GET /health. It answers 503 when the store does not respond.
//
// @Summary      Process and dependency health
// @Tags         system
// @Produce      json
// @Success      200  {object}  healthResponse
// @Failure      503  {object}  healthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if err := h.sessions.Ping(ctx); err != nil {
		deps["database"] = dependencyStatus{Status: "unhealthy", Error: "database unreachable"}
		healthy = false
	} else {
		deps["database"] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, healthResponse{
		Status:       status,
		Service:      h.info.Service,
		Version:      h.info.Version,
		Environment:  h.info.Environment,
		Dependencies: deps,
	})
}

type testDBResponse struct {
	Status string `json:"status"`
}

// TestDB handles GET /api/v1/test-db with a round trip inside a session.
//
// @Summary      Database round trip
// @Tags         system
// @Produce      json
// @Success      200  {object}  testDBResponse
// @Failure      503  {object}  errorResponse
// @Router       /api/v1/test-db [get]
func (h *SystemHandler) TestDB(c echo.Context) error {
	err := h.sessions.WithSession(c.Request().Context(), func(ctx context.Context, s ports.Session) error {
		return s.RoundTrip(ctx)
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, testDBResponse{Status: "Database connection successful"})
}

type tokenInfo struct {
	Algorithm                string `json:"algorithm"`
	AccessTokenExpireMinutes int    `json:"access_token_expire_minutes"`
}

type infoResponse struct {
	APIName          string            `json:"api_name"`
	Version          string            `json:"version"`
	Environment      string            `json:"environment"`
	Endpoints        map[string]string `json:"endpoints"`
	SecurityFeatures []string          `json:"security_features"`
	Token            tokenInfo         `json:"token"`
}

// Info handles GET /api/v1/info.
//
// @Summary      API information
// @Tags         system
// @Produce      json
// @Success      200  {object}  infoResponse
// @Router       /api/v1/info [get]
func (h *SystemHandler) Info(c echo.Context) error {
	endpoints := map[string]string{
		"health":        "/health",
		"database_test": "/api/v1/test-db",
		"api_info":      "/api/v1/info",
		"users":         "/api/v1/users",
		"posts":         "/api/v1/posts",
		"admin":         "/api/v1/admin",
		"metrics":       "/metrics",
	}
	if h.info.DocsURL != "" {
		endpoints["docs"] = h.info.DocsURL
	}

	return c.JSON(http.StatusOK, infoResponse{
		APIName:     h.info.Name,
		Version:     h.info.Version,
		Environment: h.info.Environment,
		Endpoints:   endpoints,
		SecurityFeatures: []string{
			"Rate limiting",
			"Security headers",
			"Request logging",
			"CORS protection",
			"Trusted hosts (production)",
		},
		Token: tokenInfo{
			Algorithm:                h.info.Algorithm,
			AccessTokenExpireMinutes: int(h.info.AccessTokenTTL / time.Minute),
		},
	})
}

type databaseStats struct {
	Users int64 `json:"users"`
	Posts int64 `json:"posts"`
}

type poolStats struct {
	MaxConns      int32 `json:"max_conns"`
	TotalConns    int32 `json:"total_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	IdleConns     int32 `json:"idle_conns"`
}

type redisStats struct {
	Status           string `json:"status"`
	ConnectedClients string `json:"connected_clients,omitempty"`
	UsedMemory       string `json:"used_memory,omitempty"`
	UptimeSeconds    string `json:"uptime_seconds,omitempty"`
}

type applicationStats struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type statsResponse struct {
	Database    databaseStats    `json:"database"`
	Pool        poolStats        `json:"pool"`
	Redis       redisStats       `json:"redis"`
	Application applicationStats `json:"application"`
}

// Stats handles GET /api/v1/admin/stats.
//
// @Summary      System statistics
// @Tags         admin
// @Produce      json
// @Success      200  {object}  statsResponse
// @Failure      503  {object}  errorResponse
// @Router       /api/v1/admin/stats [get]
func (h *SystemHandler) Stats(c echo.Context) error {
	st, err := h.stats.Stats(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, statsResponse{
		Database: databaseStats{Users: st.Users, Posts: st.Posts},
		Pool: poolStats{
			MaxConns:      st.Pool.MaxConns,
			TotalConns:    st.Pool.TotalConns,
			AcquiredConns: st.Pool.AcquiredConns,
			IdleConns:     st.Pool.IdleConns,
		},
		Redis: redisStats{
			Status:           st.Redis.Status,
			ConnectedClients: st.Redis.ConnectedClients,
			UsedMemory:       st.Redis.UsedMemory,
			UptimeSeconds:    st.Redis.UptimeSeconds,
		},
		Application: applicationStats{Version: h.info.Version, Environment: h.info.Environment},
	})
}
