package web

import (
	"net/http"
	"reflect"

	"github.com/labstack/echo/v4"
)

// Envelope is the uniform view payload. Every page renders exactly one of
// the four states the views are specified over.
type Envelope struct {
	State string `json:"state"` // pending | empty | error | ready
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

const (
	StatePending = "pending"
	StateEmpty   = "empty"
	StateError   = "error"
	StateReady   = "ready"
)

// RenderReady renders data, downgrading to the empty state for nil or
// zero-length collections.
func RenderReady(c echo.Context, data any) error {
	if isEmpty(data) {
		return c.JSON(http.StatusOK, Envelope{State: StateEmpty})
	}
	return c.JSON(http.StatusOK, Envelope{State: StateReady, Data: data})
}

// RenderPending renders the neutral placeholder shown while session or role
// resolution is incomplete. Retry-After hints the client to re-request.
func RenderPending(c echo.Context) error {
	c.Response().Header().Set("Retry-After", "1")
	return c.JSON(http.StatusOK, Envelope{State: StatePending})
}

// RenderError renders a failed view with a message suitable for a transient
// notification.
func RenderError(c echo.Context, code int, msg string) error {
	return c.JSON(code, Envelope{State: StateError, Error: msg})
}

func isEmpty(data any) bool {
	if data == nil {
		return true
	}
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	}
	return false
}
