package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Failure classes for remote calls. Match with errors.Is; the concrete
// error usually carries more detail (status code, server message).
var (
	// ErrUnauthorized covers 401 and 403. Callers should treat the
	// session as invalid: the token is stale or revoked.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrClient covers the remaining 4xx family (bad request, not found,
	// workflow violations).
	ErrClient = errors.New("client error")

	// ErrServer covers 5xx responses.
	ErrServer = errors.New("server error")

	// ErrNetwork means no usable response was received at all.
	ErrNetwork = errors.New("network error")

	// ErrDecode means the response arrived but its body did not parse as
	// the expected shape.
	ErrDecode = errors.New("decode error")
)

// StatusError is a non-2xx response. Message is the server-supplied error
// text when the body carried any, otherwise a generic status reference.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// Unwrap maps the status code onto the failure class so callers can use
// errors.Is without inspecting numbers.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Status == 401 || e.Status == 403:
		return ErrUnauthorized
	case e.Status >= 500:
		return ErrServer
	default:
		return ErrClient
	}
}

// newStatusError extracts a human-readable message from an error body. The
// backend wraps messages as {"detail": "..."}; a bare text body is used
// as-is and an empty body falls back to the numeric status.
func newStatusError(status int, body []byte) *StatusError {
	msg := strings.TrimSpace(string(body))
	if msg != "" {
		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
			msg = detail.Detail
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}
	return &StatusError{Status: status, Message: msg}
}
