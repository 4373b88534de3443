package crypto

import "errors"

var (
	// ErrInvalidKey is returned when a public-key string cannot be parsed.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidIVSize is returned when a GCM IV is shorter than 12 bytes.
	ErrInvalidIVSize = errors.New("invalid iv size")

	// ErrPaddingTooLarge is returned when the modulus cannot hold the padded
	// message.
	ErrPaddingTooLarge = errors.New("message too long for key")

	// ErrMessageOutOfRange is returned when the padded message is not smaller
	// than the modulus.
	ErrMessageOutOfRange = errors.New("message representative out of range")
)
