package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/booknook/storefront/internal/core/domain"
	"github.com/booknook/storefront/internal/infrastructure/bookapi"
)

// backendUnreachable is shown to the user as a transient toast.
const backendUnreachable = "The book service is unreachable right now. Please try again."

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "not authenticated"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrViewNotFound):
		return http.StatusNotFound, "view not found"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "no live session"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, domain.ErrNotConfigured):
		log.Error().Err(err).Str("path", c.Path()).Msg("backend call without API_BASE_URL")
		return http.StatusServiceUnavailable, "backend is not configured"
	case errors.Is(err, domain.ErrBackendUnavailable):
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend unreachable")
		return http.StatusBadGateway, backendUnreachable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, backendUnreachable
	}

	// Backend answered with an error we pass on: 4xx as-is, 5xx as a gateway error.
	if apiErr, ok := bookapi.IsAPIError(err); ok {
		if apiErr.StatusCode >= http.StatusInternalServerError {
			log.Warn().Err(err).Str("path", c.Path()).Msg("backend error")
			return http.StatusBadGateway, backendUnreachable
		}
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		return apiErr.StatusCode, msg
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
