package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nikhil8615/movie-booking/internal/domain/identity"
	"github.com/nikhil8615/movie-booking/internal/pkg/apperr"
	"github.com/nikhil8615/movie-booking/internal/pkg/token"
)

const callerKey = "caller"

// TokenVerifier turns a bearer token into a caller identity.
type TokenVerifier interface {
	Verify(tokenString string) (identity.Caller, error)
}

// RequireCaller rejects requests without a valid bearer token and stores
// the verified caller on the context.
func RequireCaller(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return apperr.Unauthenticated("authentication credentials were not provided")
			}

			caller, err := v.Verify(raw)
			if err != nil {
				if errors.Is(err, token.ErrExpiredToken) {
					return apperr.Unauthenticated("token has expired")
				}
				return apperr.Unauthenticated("invalid token")
			}

			c.Set(callerKey, caller)
			return next(c)
		}
	}
}

// CallerFrom returns the caller stored by RequireCaller.
func CallerFrom(c echo.Context) (identity.Caller, bool) {
	caller, ok := c.Get(callerKey).(identity.Caller)
	return caller, ok && caller.Authenticated()
}

func bearerToken(header string) (string, bool) {
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
