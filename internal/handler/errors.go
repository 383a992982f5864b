package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/casting-agency/internal/auth"
	"github.com/iliyamo/casting-agency/internal/repository"
)

// messages is the fixed client-facing text per status.
var messages = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusUnauthorized:        "forbidden",
	http.StatusForbidden:           "unauthorized",
	http.StatusNotFound:            "resource not found",
	http.StatusMethodNotAllowed:    "method not allowed",
	http.StatusUnprocessableEntity: "unprocessable entity",
	http.StatusTooManyRequests:     "too many requests",
	http.StatusInternalServerError: "internal server error",
}

// ErrorHandler returns an echo.HTTPErrorHandler that renders err as
// {success:false, error:<status>, message:<text>}.  Store and auth sentinel
// errors are mapped to their status; the error detail is logged, never
// sent to the client.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "error_handler")

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := StatusFor(err)
		ctx := c.Request().Context()

		switch {
		case status >= http.StatusInternalServerError, status == http.StatusUnprocessableEntity:
			logger.ErrorContext(ctx, "request failed",
				"method", c.Request().Method, "path", c.Request().URL.Path, "status", status, "error", err)
		default:
			logger.DebugContext(ctx, "request rejected",
				"method", c.Request().Method, "path", c.Request().URL.Path, "status", status, "error", err)
		}

		if status == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, envelope{"success": false, "error": status, "message": messages[status]})
		}
		if werr != nil {
			logger.ErrorContext(ctx, "writing error response failed", "error", werr)
		}
	}
}

// StatusFor maps an error to one of the statuses in messages.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrInvalidReference),
		errors.Is(err, repository.ErrInvalidValue):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrHasDependents):
		return http.StatusUnprocessableEntity
	case errors.Is(err, auth.ErrMissingAuthHeader),
		errors.Is(err, auth.ErrMalformedHeader),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrPermissionsClaimMissing):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrKeyNotFound),
		errors.Is(err, auth.ErrUnparseableToken):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrPermissionDenied):
		return http.StatusForbidden
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if _, known := messages[he.Code]; known {
			return he.Code
		}
		if he.Code >= http.StatusInternalServerError {
			return http.StatusInternalServerError
		}
		// 413, 415 and the like are all malformed requests.
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// isClassified reports whether err already maps to a specific status.
func isClassified(err error) bool {
	var he *echo.HTTPError
	return errors.As(err, &he) ||
		errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, repository.ErrInvalidReference) ||
		errors.Is(err, repository.ErrInvalidValue) ||
		errors.Is(err, repository.ErrHasDependents)
}
