package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Common API errors that can be checked with errors.Is.
var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("API key is required")
	// ErrUnauthorized indicates the API key is invalid or expired.
	ErrUnauthorized = errors.New("invalid or expired API key")
	// ErrRejected indicates the server refused the payload as malformed.
	ErrRejected = errors.New("payload rejected")
	// ErrConflict indicates the idempotency key was reused with a different body.
	ErrConflict = errors.New("idempotency key conflict")
	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// APIError represents an HTTP error from the API.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		if e.Message != "" {
			return fmt.Sprintf("API error %d: %s (request_id: %s)", e.StatusCode, e.Message, e.RequestID)
		}
		return fmt.Sprintf("API error %d (request_id: %s)", e.StatusCode, e.RequestID)
	}
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return target == ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return target == ErrRejected
	case http.StatusConflict:
		return target == ErrConflict
	case http.StatusTooManyRequests:
		return target == ErrRateLimited
	}
	return false
}

// NetworkError represents a network-level failure after all retries.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error after %d attempt(s): %v", e.Attempt, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
