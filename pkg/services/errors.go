// Package services provides the business layer between the HTTP API and the
// persistence and registry packages.
package services

import (
	"errors"
	"fmt"

	"github.com/dukex/areion/pkg/persistence"
)

var (
	// ErrAreaNotFound is returned when an area does not exist.
	ErrAreaNotFound = persistence.ErrAreaNotFound
	// ErrConnectionNotFound is returned when a referenced connection does not exist.
	ErrConnectionNotFound = persistence.ErrConnectionNotFound

	// Validation errors (400 Bad Request).
	ErrAreaNil            = errors.New("area cannot be nil")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrUnknownService     = errors.New("unknown service")
	ErrUnknownTrigger     = errors.New("unknown trigger")
	ErrUnknownReaction    = errors.New("unknown reaction")
	ErrInvalidParameters  = errors.New("invalid parameters")
	ErrTriggerSetupFailed = errors.New("trigger setup failed")
)

// ServiceError wraps a service-level failure with the operation it happened in.
type ServiceError struct {
	Op      string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewValidationError creates a validation error with context.
func NewValidationError(op, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// IsValidationError checks if an error should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrAreaNil) ||
		errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrUnknownService) ||
		errors.Is(err, ErrUnknownTrigger) ||
		errors.Is(err, ErrUnknownReaction) ||
		errors.Is(err, ErrInvalidParameters) ||
		errors.Is(err, ErrTriggerSetupFailed)
}

// IsNotFoundError checks if an error should map to HTTP 404.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrAreaNotFound) ||
		errors.Is(err, ErrConnectionNotFound)
}
