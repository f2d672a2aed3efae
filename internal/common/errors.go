// Package common defines shared constants and sentinel errors used across
// the server and the admin client. Callers should use errors.Is to match
// these values.
package common

import (
	"errors"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorUnavailable  = errors.New("store unavailable")
	ErrorValidation   = errors.New("validation error")

	// Snapshot export requested while no bucket is configured.
	ErrorExportDisabled = errors.New("export disabled")

	// Referential-integrity violations (a company still referenced by vehicles).
	ErrorConflict = errors.New("referenced by existing vehicles")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError reports user-correctable input problems. Fields lists the
// offending field names in the order they were checked.
type ValidationError struct {
	Fields  []string
	Message string
}

// NewValidationError builds a ValidationError for the given fields.
func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Message: message}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

// Is makes errors.Is(err, ErrorValidation) true for any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}
