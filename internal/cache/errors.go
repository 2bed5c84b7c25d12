package cache

import (
	"errors"
	"fmt"
)

// LoadErrorCode categorizes dataset load failures.
type LoadErrorCode string

const (
	// ErrCodeTransientIO indicates a network fetch or store transaction
	// failure. Terminal for the current load; no automatic retry.
	ErrCodeTransientIO LoadErrorCode = "TRANSIENT_IO"

	// ErrCodeDataUnavailable indicates the remote dataset was empty or
	// malformed.
	ErrCodeDataUnavailable LoadErrorCode = "DATA_UNAVAILABLE"
)

// LoadError represents a failure to produce the authoritative record set.
//
// Load errors during the initial fetch are terminal and surfaced to the
// caller with no automatic retry - retry UI, if any, belongs to the
// presentation layer. Persistence failures after a successful fetch are
// NOT load errors; they cost next-session durability only and are logged
// as warnings.
type LoadError struct {
	// Code identifies the failure category.
	Code LoadErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause (optional).
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsTransientIO returns true if the error is a transient I/O load failure.
// Uses errors.As to handle wrapped errors.
func IsTransientIO(err error) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code == ErrCodeTransientIO
	}
	return false
}

// IsDataUnavailable returns true if the error reports an empty or
// malformed remote dataset. Uses errors.As to handle wrapped errors.
func IsDataUnavailable(err error) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code == ErrCodeDataUnavailable
	}
	return false
}

// NewTransientIOError creates a LoadError for a fetch or store failure.
func NewTransientIOError(message string, err error) *LoadError {
	return &LoadError{Code: ErrCodeTransientIO, Message: message, Err: err}
}

// NewDataUnavailableError creates a LoadError for an empty or malformed
// remote dataset.
func NewDataUnavailableError(message string, err error) *LoadError {
	return &LoadError{Code: ErrCodeDataUnavailable, Message: message, Err: err}
}
