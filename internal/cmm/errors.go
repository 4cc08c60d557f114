package cmm

import (
	"errors"
	"fmt"
)

// ErrFolderNotFound is returned when the report folder does not exist or is
// not a directory.
var ErrFolderNotFound = errors.New("report folder does not exist")

// AggregationError wraps errors that abort a report folder scan.
type AggregationError struct {
	// Op is the operation that failed (e.g., "Collect", "Summarize").
	Op string

	// Folder is the folder being scanned.
	Folder string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *AggregationError) Error() string {
	return fmt.Sprintf("cmm: %s %s: %v", e.Op, e.Folder, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *AggregationError) Unwrap() error {
	return e.Err
}

// WrapAggregationError wraps an error as an AggregationError if it isn't
// already one.
func WrapAggregationError(op, folder string, err error) error {
	if err == nil {
		return nil
	}

	var aggErr *AggregationError
	if errors.As(err, &aggErr) {
		return err
	}

	return &AggregationError{Op: op, Folder: folder, Err: err}
}
