package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBackupsDisabled     = errors.New("backups are not configured")
)

// Validation errors
var (
	ErrInvalidTransactionType = errors.New("type must be income or expense")
	ErrInvalidCategory        = errors.New("category does not match transaction type")
	ErrInvalidAmount          = errors.New("amount must be a non-negative number below 10000000000000 with at most 2 decimal places")
	ErrDescriptionRequired    = errors.New("description is required")
	ErrDescriptionTooLong     = errors.New("description exceeds maximum length")
	ErrInvalidDescription     = errors.New("description must be valid UTF-8 text")
	ErrDateRequired           = errors.New("date is required")
	ErrInvalidBudgetLimit     = errors.New("budget limit must be a non-negative number below 10000000000000 with at most 2 decimal places")
)

// ValidationError rejects user input before any remote call is made
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for a field
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// PersistenceError wraps a failed remote operation.
// A missing resource is reported as a PersistenceError wrapping ErrTransactionNotFound.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPersistenceError reports whether err is a PersistenceError
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
