package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/booknest/booknest/internal/client/query"
	"github.com/booknest/booknest/internal/client/remote"
)

// NewHTTPErrorHandler maps client-side failures onto the view envelope:
// upstream sentinel errors keep their status, unmatched routes render the
// not-found view, and anything unexpected is logged and hidden behind a
// generic message.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := resolveError(err, log, c)
		_ = RenderError(c, code, msg)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound {
			return http.StatusNotFound, "page not found"
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, remote.ErrUnauthenticated):
		return http.StatusUnauthorized, "session expired, sign in again"
	case errors.Is(err, remote.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, remote.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, remote.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, query.ErrMutationPending):
		return http.StatusTooManyRequests, "action already in progress"
	case errors.Is(err, query.ErrDisabled):
		return http.StatusServiceUnavailable, "still loading"
	case errors.Is(err, remote.ErrUpstream):
		return http.StatusBadGateway, "backend unavailable, try again"
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal error"
}
