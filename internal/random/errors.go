package random

import "errors"

var (
	// ErrNotReady is returned by a draw while the generator has not yet
	// collected enough entropy. Callers should gather more events and retry.
	ErrNotReady = errors.New("generator not ready")

	// ErrInvalidLength is returned for a negative draw size.
	ErrInvalidLength = errors.New("invalid length")
)
