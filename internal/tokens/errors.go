package tokens

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentOpen is returned when a document cannot be read or decoded.
	ErrDocumentOpen = errors.New("document cannot be opened")

	// ErrMissingCapability is returned when no token extraction backend is
	// available. Callers surface it before processing any document.
	ErrMissingCapability = errors.New("token extraction is not available")
)

// DocumentOpenError reports a document that could not be opened or decoded.
type DocumentOpenError struct {
	// Op is the operation that failed (e.g., "Open", "Words").
	Op string

	// Location is the document location.
	Location string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *DocumentOpenError) Error() string {
	return fmt.Sprintf("tokens: %s %s: %v", e.Op, e.Location, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *DocumentOpenError) Unwrap() error {
	return e.Err
}

// Is reports ErrDocumentOpen for every DocumentOpenError.
func (e *DocumentOpenError) Is(target error) bool {
	return target == ErrDocumentOpen || errors.Is(e.Err, target)
}

// NewDocumentOpenError creates a DocumentOpenError.
func NewDocumentOpenError(op, location string, err error) *DocumentOpenError {
	return &DocumentOpenError{
		Op:       op,
		Location: location,
		Err:      err,
	}
}

// TokenError wraps errors with the failing operation.
type TokenError struct {
	Op      string
	Err     error
	Details string
}

// Error implements the error interface.
func (e *TokenError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("tokens: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("tokens: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *TokenError) Unwrap() error {
	return e.Err
}

// WrapTokenError wraps an error as a TokenError if it isn't already one.
func WrapTokenError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var tokenErr *TokenError
	if errors.As(err, &tokenErr) {
		return err
	}

	return &TokenError{Op: op, Err: err, Details: details}
}
