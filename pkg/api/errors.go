package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// TransportError is returned when a request could not complete at the network
// layer: dial failures, resets, cancellation before a response, and drops
// after a stream has started.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError is returned when the backend answered but the answer is not
// usable: a non-2xx status, or a stream request that came back without a body.
type ProtocolError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string

	// Body is the raw response text, possibly truncated.
	Body string

	// Detail is the FastAPI "detail" field when the body carried one.
	Detail string
}

func (e *ProtocolError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Detail)
	case e.Body != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("%s %s: request failed: status %d", e.Method, e.URL, e.StatusCode)
	}
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not a
// *ProtocolError.
func StatusCode(err error) int {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 from the backend.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

func newProtocolError(resp *http.Response, body []byte) *ProtocolError {
	pe := &ProtocolError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(body)),
		Detail:     detailFrom(body),
	}
	if resp.Request != nil {
		pe.Method = resp.Request.Method
		pe.URL = resp.Request.URL.String()
	}
	return pe
}

// detailFrom extracts FastAPI's {"detail": ...}. Validation errors carry a
// list instead of a string; those are returned as compact JSON.
func detailFrom(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	return string(envelope.Detail)
}
