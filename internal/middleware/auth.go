package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminKey gates the admin endpoints behind a static credential, compared in
// constant time. A server configured without a key refuses all admin calls
// rather than running open.
func AdminKey(configuredKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if configuredKey == "" {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "admin access not configured")
			}
			supplied := c.Request().Header.Get(AdminKeyHeader)
			if supplied == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing admin credential")
			}
			if subtle.ConstantTimeCompare([]byte(supplied), []byte(configuredKey)) != 1 {
				return echo.NewHTTPError(http.StatusForbidden, "invalid admin credential")
			}
			return next(c)
		}
	}
}
