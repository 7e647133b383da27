package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means an event id (or other key) does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrInvalidBooking marks a booking request that failed its preconditions.
	ErrInvalidBooking = errors.New("invalid booking request")

	// ErrPersistence is returned when a local key-value write or read fails.
	ErrPersistence = errors.New("persistence error")

	// ErrCatalogUnavailable is the transport error of a remote catalog fetch.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrTimeout means the caller abandoned a booking before it completed.
	ErrTimeout = errors.New("timeout")
)

// ValidationError reports a single offending field of a form or request.
type ValidationError struct {
	Field   string
	Message string
	// Kind optionally ties the validation failure to a sentinel such as ErrInvalidBooking.
	Kind error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// Invalid builds a ValidationError for field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InvalidBooking builds a ValidationError that also matches ErrInvalidBooking.
func InvalidBooking(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Kind: ErrInvalidBooking}
}

// IsValidation reports whether err carries a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
