package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nikhil8615/movie-booking/internal/pkg/apperr"
	"github.com/nikhil8615/movie-booking/internal/pkg/logger"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    int            `json:"code,omitempty"`
	Kind    string         `json:"kind,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

const internalErrorMessage = "internal server error"

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput, apperr.KindInvalidState:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// CustomHTTPErrorHandler renders application and echo errors as JSON.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	resp := toErrorResponse(err)

	if resp.Code >= 500 {
		logger.Error("server error",
			zap.Int("status", resp.Code),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(resp.Code)
	} else {
		err = c.JSON(resp.Code, resp)
	}
	if err != nil {
		logger.Error("failed to send error response", zap.Error(err))
	}
}

func toErrorResponse(err error) ErrorResponse {
	if e, ok := apperr.As(err); ok {
		code := StatusFor(e.Kind)
		if code >= 500 {
			return ErrorResponse{Error: internalErrorMessage, Code: code, Kind: string(apperr.KindInternal)}
		}
		return ErrorResponse{Error: e.Message, Code: code, Kind: string(e.Kind), Details: e.Details}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		if he.Code >= 500 {
			message = internalErrorMessage
		}
		return ErrorResponse{Error: message, Code: he.Code, Kind: string(kindForStatus(he.Code))}
	}

	return ErrorResponse{Error: internalErrorMessage, Code: http.StatusInternalServerError, Kind: string(apperr.KindInternal)}
}

func kindForStatus(code int) apperr.Kind {
	switch code {
	case http.StatusBadRequest:
		return apperr.KindInvalidInput
	case http.StatusNotFound:
		return apperr.KindNotFound
	case http.StatusUnauthorized:
		return apperr.KindUnauthenticated
	case http.StatusForbidden:
		return apperr.KindForbidden
	case http.StatusConflict:
		return apperr.KindConflict
	}
	if code >= 500 {
		return apperr.KindInternal
	}
	return ""
}
