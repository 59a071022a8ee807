package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string `json:"message"`
}

// ErrorHandlerOptions tunes the status mapping.
type ErrorHandlerOptions struct {
	// LegacyStatusCodes reports not-found outcomes as 400 Bad Request.
	LegacyStatusCodes bool
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain error
// kinds to status codes, logs unexpected errors without leaking them, and
// renders {"message": "<text>"}.
func NewHTTPErrorHandler(log zerolog.Logger, opts ErrorHandlerOptions) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, opts, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, opts ErrorHandlerOptions, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (router 404/405, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Int("status", he.Code).Msg("http error")
		}
		if he.Code == http.StatusNotFound && he.Message == http.StatusText(http.StatusNotFound) {
			return http.StatusNotFound, "404 Not Found"
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var de *domain.Error
	if errors.As(err, &de) {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return http.StatusBadRequest, de.Message
		case errors.Is(err, domain.ErrConflict):
			return http.StatusConflict, de.Message
		case errors.Is(err, domain.ErrNotFound):
			if opts.LegacyStatusCodes {
				return http.StatusBadRequest, de.Message
			}
			return http.StatusNotFound, de.Message
		case errors.Is(err, domain.ErrUnauthorized):
			return http.StatusUnauthorized, de.Message
		case errors.Is(err, domain.ErrTooManyRequests):
			return http.StatusTooManyRequests, de.Message
		case errors.Is(err, domain.ErrIntegrity):
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("dangling reference")
			return http.StatusInternalServerError, de.Message
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
