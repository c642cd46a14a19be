package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrAreaNotFound indicates an area was not found by the given identifier.
	ErrAreaNotFound = errors.New("area not found")

	// ErrTriggerBindingNotFound indicates a trigger binding was not found.
	ErrTriggerBindingNotFound = errors.New("trigger binding not found")

	// ErrConnectionNotFound indicates a connection was not found by the given identifier.
	ErrConnectionNotFound = errors.New("connection not found")
)

// AreaError wraps area-related errors with operation context.
type AreaError struct {
	Op     string // Operation being performed (e.g., "AreaByID", "SaveArea")
	AreaID string
	Err    error
}

func (e *AreaError) Error() string {
	return fmt.Sprintf("%s operation failed for area %s: %v", e.Op, e.AreaID, e.Err)
}

func (e *AreaError) Unwrap() error {
	return e.Err
}

func (e *AreaError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewAreaError creates a new area error with context.
func NewAreaError(op, areaID string, err error) *AreaError {
	return &AreaError{
		Op:     op,
		AreaID: areaID,
		Err:    err,
	}
}

// IsAreaNotFound checks if an error indicates an area was not found.
func IsAreaNotFound(err error) bool {
	return errors.Is(err, ErrAreaNotFound)
}

// IsConnectionNotFound checks if an error indicates a connection was not found.
func IsConnectionNotFound(err error) bool {
	return errors.Is(err, ErrConnectionNotFound)
}
