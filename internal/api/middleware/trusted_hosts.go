package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// TrustedHosts rejects requests whose Host header is not in hosts. An entry
// may be "*" (any host) or start with "*." to match every subdomain.
func TrustedHosts(hosts []string) echo.MiddlewareFunc {
	allowAll := false
	for _, h := range hosts {
		if h == "*" {
			allowAll = true
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if allowAll || hostAllowed(c.Request().Host, hosts) {
				return next(c)
			}
			return echo.NewHTTPError(http.StatusBadRequest, "invalid host header")
		}
	}
}

func hostAllowed(hostport string, hosts []string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	host = strings.ToLower(host)

	for _, pattern := range hosts {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(suffix, ".") {
			if strings.HasSuffix(host, suffix) {
				return true
			}
			continue
		}
		if host == pattern {
			return true
		}
	}
	return false
}
