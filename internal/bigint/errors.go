package bigint

import "errors"

var (
	// ErrEmptyInput is returned when parsing an empty string.
	ErrEmptyInput = errors.New("bigint: empty input")

	// ErrInvalidDigit is returned when a string contains a digit outside the base.
	ErrInvalidDigit = errors.New("bigint: invalid digit")

	// ErrInvalidBase is returned for a base outside 2..36.
	ErrInvalidBase = errors.New("bigint: base must be between 2 and 36")

	// ErrDivisionByZero is returned when dividing by zero.
	ErrDivisionByZero = errors.New("bigint: division by zero")

	// ErrInvalidModulus is returned for a zero or negative modulus.
	ErrInvalidModulus = errors.New("bigint: modulus must be positive")

	// ErrNegativeExponent is returned by ModPow for a negative exponent.
	ErrNegativeExponent = errors.New("bigint: negative exponent")
)
