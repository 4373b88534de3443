package ravelin

import (
	"errors"
	"fmt"

	"github.com/unravelin/ravelinjs-sub000/internal/api"
	"github.com/unravelin/ravelinjs-sub000/internal/crypto"
	"github.com/unravelin/ravelinjs-sub000/internal/random"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrCardRequired is returned when no card details are provided.
	ErrCardRequired = errors.New("card is required")

	// ErrMissingKey is returned when neither the Encrypter nor the call
	// supplies a public key.
	ErrMissingKey = errors.New("Encryption Key has not been set")

	// ErrInvalidKey is returned when a public-key string cannot be parsed.
	ErrInvalidKey = errors.New("invalid key")

	// ErrGeneratorNotReady is returned while the random generator has not
	// collected enough entropy. Collect more events and retry.
	ErrGeneratorNotReady = errors.New("generator not ready")

	// ErrPaddingTooLarge is returned when the key's modulus is too small to
	// hold the wrapped session key.
	ErrPaddingTooLarge = errors.New("message too long for key")

	// ErrEncryptionFailed matches every EncryptionError.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrMissingAPIKey is returned when a Transport has no API key.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrUnauthorized is returned when the API key is invalid or expired.
	ErrUnauthorized = errors.New("invalid or expired API key")

	// ErrRejected is returned when the server refuses a payload.
	ErrRejected = errors.New("payload rejected")

	// ErrConflict is returned when the server has already seen the
	// idempotency key with a different payload.
	ErrConflict = errors.New("idempotency key conflict")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// RavelinError is implemented by all SDK errors.
type RavelinError interface {
	error
	RavelinError() // marker method
}

// InvalidFieldError reports a card field that failed validation.
type InvalidFieldError struct {
	Field  string // "pan", "month" or "year"
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return e.Reason
}

// RavelinError implements the RavelinError interface.
func (e *InvalidFieldError) RavelinError() {}

// UnexpectedFieldError reports a card property outside the accepted set.
type UnexpectedFieldError struct {
	Name string
}

func (e *UnexpectedFieldError) Error() string {
	return fmt.Sprintf("unexpected property %s", e.Name)
}

// RavelinError implements the RavelinError interface.
func (e *UnexpectedFieldError) RavelinError() {}

// KeyError reports a public key that could not be parsed.
type KeyError struct {
	Err error
}

func (e *KeyError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *KeyError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *KeyError) Is(target error) bool {
	return target == ErrInvalidKey
}

// RavelinError implements the RavelinError interface.
func (e *KeyError) RavelinError() {}

// EncryptionError reports a failure inside the cipher pipeline.
type EncryptionError struct {
	Stage string // "random", "aes" or "rsa"
	Err   error
}

func (e *EncryptionError) Error() string {
	return fmt.Sprintf("encryption failed at %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *EncryptionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *EncryptionError) Is(target error) bool {
	switch target {
	case ErrEncryptionFailed:
		return true
	case ErrGeneratorNotReady:
		return errors.Is(e.Err, random.ErrNotReady)
	case ErrPaddingTooLarge:
		return errors.Is(e.Err, crypto.ErrPaddingTooLarge)
	}
	return false
}

// RavelinError implements the RavelinError interface.
func (e *EncryptionError) RavelinError() {}

// APIError represents an HTTP error from the Ravelin API.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string // if returned by server
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

// RavelinError implements the RavelinError interface.
func (e *APIError) RavelinError() {}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401, 403:
		return target == ErrUnauthorized
	case 400, 422:
		return target == ErrRejected
	case 409:
		return target == ErrConflict
	case 429:
		return target == ErrRateLimited
	}
	return false
}

// NetworkError represents a network-level failure.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RavelinError implements the RavelinError interface.
func (e *NetworkError) RavelinError() {}

// wrapError converts internal API errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			RequestID:  apiErr.RequestID,
		}
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err:     netErr.Err,
			URL:     netErr.URL,
			Attempt: netErr.Attempt,
		}
	}

	if errors.Is(err, api.ErrMissingAPIKey) {
		return ErrMissingAPIKey
	}

	return err
}

// wrapCryptoError converts errors from the cipher pipeline to public errors.
func wrapCryptoError(stage string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, crypto.ErrInvalidKey) {
		return &KeyError{Err: err}
	}
	return &EncryptionError{Stage: stage, Err: err}
}
