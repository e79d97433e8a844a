package anytype

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// Canonical errors. Messages are shown to the user verbatim.
var (
	ErrConnection   = errors.New("Can't connect to API. Please ensure Anytype is running and reachable.")
	ErrPermission   = errors.New("Operation not permitted.")
	ErrParse        = errors.New("Failed to parse JSON response")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limit exceeded")
)

// APIError is a non-2xx response. It unwraps to the matching sentinel so
// callers can use errors.Is(err, ErrNotFound) or read Status directly.
type APIError struct {
	Status     int
	StatusText string
	Body       string
	// Message is the server's error message when the body is a JSON error object.
	Message string
}

func newAPIError(status int, statusText string, body []byte) *APIError {
	e := &APIError{Status: status, StatusText: statusText, Body: scrubCredentials(strings.TrimSpace(string(body)))}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Message = payload.Message
	}
	return e
}

func (e *APIError) Error() string {
	if e.Status == 403 {
		return ErrPermission.Error()
	}
	if e.Message != "" {
		return fmt.Sprintf("API request failed: [%d] %s", e.Status, e.Message)
	}
	return fmt.Sprintf("API request failed: [%d] %s %s", e.Status, e.StatusText, e.Body)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrPermission
	case 404, 410:
		return ErrNotFound
	case 429:
		return ErrRateLimited
	}
	return nil
}

// ParseError wraps a JSON decoding failure.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string   { return ErrParse.Error() }
func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsGone reports whether err means the requested resource no longer exists.
func IsGone(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// isConnectionError reports transport failures that mean nothing is
// listening: refused connections and any failure while dialing.
func isConnectionError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return false
}

// ValidationError is a client-side input problem, reported before any
// request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
