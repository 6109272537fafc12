package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const permissionsPolicy = "geolocation=(), microphone=(), camera=()"

// SecurityHeaders sets the standard hardening headers. The content security
// policy is left out in debug mode so the docs UI can load its assets.
func SecurityHeaders(debug bool) echo.MiddlewareFunc {
	cfg := echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	if !debug {
		cfg.ContentSecurityPolicy = "default-src 'self'"
	}
	secure := echomiddleware.SecureWithConfig(cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := secure(next)
		return func(c echo.Context) error {
			c.Response().Header().Set("Permissions-Policy", permissionsPolicy)
			return h(c)
		}
	}
}

// CORS allows the configured origins with credentials. In debug mode every
// origin is allowed, without credentials.
func CORS(origins []string, debug bool) echo.MiddlewareFunc {
	cfg := echomiddleware.CORSConfig{
		AllowOrigins:     origins,
		AllowCredentials: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		ExposeHeaders: []string{echo.HeaderXRequestID, HeaderProcessTime},
	}
	if debug {
		cfg.AllowOrigins = []string{"*"}
		cfg.AllowCredentials = false
	}
	return echomiddleware.CORSWithConfig(cfg)
}
