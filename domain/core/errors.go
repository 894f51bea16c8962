package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound      = errors.New("resource not found")
	ErrFieldNotFound = fmt.Errorf("%w: field", ErrNotFound)

	// Validation errors
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidModule         = errors.New("invalid module index")
	ErrSubChannelOutOfRange  = errors.New("sub-channel index out of range")
	ErrBinOutOfRange         = errors.New("target bin index out of range")
	ErrSampleIndexOutOfRange = errors.New("sample index out of range")
	ErrInvalidRange          = errors.New("invalid histogram range")
	ErrInvalidBinCount       = errors.New("invalid histogram bin count")

	// Data shape errors
	ErrShapeMismatch = errors.New("column rows have inconsistent shapes")
	ErrNonNumeric    = errors.New("column holds non-numeric values")
	ErrMalformed     = errors.New("malformed readout table")

	// Degenerate data
	ErrNoData = errors.New("no samples passed the range filter")
)

// Error constructors with context
func NewFieldNotFoundError(name string) error {
	return fmt.Errorf("%w: %s", ErrFieldNotFound, name)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, reason)
}

func NewMalformedError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformed, field, reason)
}

func NewSubChannelError(subChannel, width int) error {
	if width == 0 {
		return fmt.Errorf("%w: sub-channel %d requested on a scalar column", ErrSubChannelOutOfRange, subChannel)
	}
	return fmt.Errorf("%w: sub-channel %d, row width %d", ErrSubChannelOutOfRange, subChannel, width)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidModule) ||
		errors.Is(err, ErrSubChannelOutOfRange) ||
		errors.Is(err, ErrBinOutOfRange) ||
		errors.Is(err, ErrSampleIndexOutOfRange) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidBinCount)
}

func IsFormatError(err error) bool {
	return errors.Is(err, ErrMalformed) ||
		errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrNonNumeric)
}

func IsNoDataError(err error) bool {
	return errors.Is(err, ErrNoData)
}
