package filter

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFilter is matched by every UnknownFilterError.
	ErrUnknownFilter = errors.New("unknown filter")
	// ErrFieldCollision is returned when two filters in one container read the same request field.
	ErrFieldCollision = errors.New("request field already bound")
	// ErrNoResult is the cause when a repository returns neither a result nor an error.
	ErrNoResult = errors.New("repository returned no result")
)

// UnknownFilterError reports a lookup of a filter name that is not registered.
type UnknownFilterError struct {
	Name string
}

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("unknown filter: %q", e.Name)
}

func (e *UnknownFilterError) Unwrap() error {
	return ErrUnknownFilter
}

// SearchExecutionError wraps a backend failure. No partial result accompanies it.
type SearchExecutionError struct {
	Cause error
}

func (e *SearchExecutionError) Error() string {
	return fmt.Sprintf("search execution failed: %v", e.Cause)
}

func (e *SearchExecutionError) Unwrap() error {
	return e.Cause
}
