package upstream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/grocery/admin/internal/domain/shared"
)

// APIError is a non-2xx response of the remote store
type APIError struct {
	Status     int
	Message    string
	Body       []byte
	Method     string
	Route      string
	RetryAfter time.Duration
}

// NewAPIError builds an APIError, taking the message from the body's "error"
// field, then its "message" field
func NewAPIError(status int, body []byte) *APIError {
	return &APIError{Status: status, Message: ParseErrorMessage(body), Body: body}
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Route != "" {
		return fmt.Sprintf("upstream %s %s: %d %s", e.Method, e.Route, e.Status, msg)
	}
	return fmt.Sprintf("upstream: %d %s", e.Status, msg)
}

// PublicMessage is the message the remote store meant for the admin, possibly empty
func (e *APIError) PublicMessage() string {
	return e.Message
}

// Is maps remote statuses onto the domain error set
func (e *APIError) Is(target error) bool {
	switch target {
	case shared.ErrNotFound:
		return e.Status == http.StatusNotFound
	case shared.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case shared.ErrInvalidInput:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity || e.Status == http.StatusConflict
	case shared.ErrUpstreamUnavailable:
		return e.Status >= 500 || e.Status == http.StatusTooManyRequests
	}
	return false
}

// ParseErrorMessage extracts "error", then "message" from a JSON error body.
// A string "error" wins; an object "error" is searched for its own "message".
func ParseErrorMessage(body []byte) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if len(payload.Error) > 0 {
		var s string
		if json.Unmarshal(payload.Error, &s) == nil && strings.TrimSpace(s) != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(payload.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return payload.Message
}

// TransportError is a request that never produced an HTTP response
type TransportError struct {
	Method string
	Route  string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream %s %s: %v", e.Method, e.Route, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports the remote store as unavailable
func (e *TransportError) Is(target error) bool {
	return target == shared.ErrUpstreamUnavailable
}
