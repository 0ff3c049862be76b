package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nikhil8615/movie-booking/internal/config"
)

// MetricsBasicAuth protects /metrics with basic auth. Without configured
// credentials the endpoint stays open for local development.
func MetricsBasicAuth(cfg config.MetricsConfig) echo.MiddlewareFunc {
	if !MetricsAuthEnabled(cfg) {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return middleware.BasicAuth(func(username, password string, c echo.Context) (bool, error) {
		userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.User)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1
		return userMatch && passMatch, nil
	})
}

func MetricsAuthEnabled(cfg config.MetricsConfig) bool {
	return cfg.User != "" && cfg.Password != ""
}
