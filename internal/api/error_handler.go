package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookshelf/secureapp/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Field is
// set for uniqueness conflicts; Fields and Input for rejected forms.
type errorResponse struct {
	Error  string            `json:"error"`
	Field  string            `json:"field,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Input  any               `json:"input,omitempty"`
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

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

var notFoundErrors = []error{domain.ErrBookNotFound, domain.ErrAccountNotFound, domain.ErrRoleNotFound}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:  domain.ErrValidationFailed.Error(),
			Fields: ve.Fields,
			Input:  ve.Input,
		}
	}

	var de *domain.DuplicateIdentityError
	if errors.As(err, &de) {
		return http.StatusConflict, errorResponse{Error: de.Error(), Field: de.Field}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "authentication required"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrInactiveAccount):
		return http.StatusForbidden, errorResponse{Error: "account is disabled"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"}
	case errors.Is(err, domain.ErrNotFound):
		for _, nf := range notFoundErrors {
			if errors.Is(err, nf) {
				return http.StatusNotFound, errorResponse{Error: nf.Error()}
			}
		}
		return http.StatusNotFound, errorResponse{Error: "not found"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
