package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors (other than 429).
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 rate limit errors.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// classify categorizes a failed attempt by status code, or as a network
// error when the request never produced a response.
func classify(statusCode int, err error) ErrorClass {
	if err != nil {
		return ErrorClassNetwork
	}

	switch {
	case statusCode == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case statusCode >= 500:
		return ErrorClassServer
	case statusCode >= 400:
		return ErrorClassClient
	default:
		return ""
	}
}

// transient reports whether failures of this class are expected to resolve
// on their own and are therefore worth retrying on idempotent requests.
func (c ErrorClass) transient() bool {
	switch c {
	case ErrorClassServer, ErrorClassRateLimit, ErrorClassNetwork:
		return true
	default:
		// 4xx errors will not change on immediate retry.
		return false
	}
}

// APIError is a terminal helpdesk API failure enriched with the remote
// service's structured error payload.
type APIError struct {
	// StatusCode is the HTTP status of the failed response.
	StatusCode int

	// Class is the failure classification.
	Class ErrorClass

	// Message is the human-readable error extracted from the response body.
	Message string

	// Body is the structured error payload, when the response carried one.
	Body map[string]any

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("helpdesk error (%d): %s", e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// enrich turns a terminal HTTP failure into an APIError carrying the
// service's structured error payload. Enrichment runs once, on the final
// failure only — never on intermediate attempts that will be retried.
func enrich(statusCode int, class ErrorClass, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Class:      class,
	}

	var structured map[string]any
	if err := json.Unmarshal(body, &structured); err == nil && structured != nil {
		apiErr.Body = structured
		apiErr.Message = extractMessage(structured, body)
		return apiErr
	}

	// No structured payload: fall back to the raw body, then the status text.
	if msg := strings.TrimSpace(string(body)); msg != "" {
		apiErr.Message = msg
	} else {
		apiErr.Message = http.StatusText(statusCode)
	}
	return apiErr
}

// extractMessage prefers an explicit error-message field, falls back to a
// generic message field, then to a canonical dump of the whole payload.
func extractMessage(structured map[string]any, raw []byte) string {
	if msg, ok := structured["error"].(string); ok && msg != "" {
		return msg
	}
	if msg, ok := structured["message"].(string); ok && msg != "" {
		return msg
	}

	if dump, err := json.Marshal(structured); err == nil {
		return string(dump)
	}
	return string(raw)
}
