package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and stable code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "code": "<CODE>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, resp)
	}
}

// domainErrors lists each sentinel with its HTTP status. Sentinels marked
// detailed expose the wrapped message; the rest answer with the sentinel text.
var domainErrors = []struct {
	err      error
	status   int
	detailed bool
}{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, false},
	{domain.ErrApplicationNotAuthorized, http.StatusForbidden, false},
	{domain.ErrInvalidToken, http.StatusUnauthorized, true},
	{domain.ErrDuplicateIdentifier, http.StatusConflict, false},
	{domain.ErrInvalidBooking, http.StatusUnprocessableEntity, true},
	{domain.ErrStoreUnavailable, http.StatusServiceUnavailable, false},
	{domain.ErrInvalidPagination, http.StatusBadRequest, true},
	{domain.ErrPasswordTooLong, http.StatusBadRequest, false},
	{domain.ErrAccountNotFound, http.StatusNotFound, false},
	{domain.ErrInvalidAccount, http.StatusBadRequest, true},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message), Code: statusCode(he.Code)}
	}

	for _, d := range domainErrors {
		if !errors.Is(err, d.err) {
			continue
		}
		msg := d.err.Error()
		if d.detailed {
			msg = err.Error()
		}
		if d.status >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("dependency failure")
		}
		return d.status, errorResponse{Error: msg, Code: domain.Code(d.err)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: domain.CodeInternal}
}

// statusCode turns an HTTP status into an upper-case code, e.g. 404 -> NOT_FOUND.
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return domain.CodeInternal
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
