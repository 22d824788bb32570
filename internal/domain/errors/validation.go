package errors

import (
	"maps"
	"net/http"
	"slices"
	"strings"
)

// ValidationError carries field-level messages keyed by request field name.
// It is surfaced to the client verbatim so forms can render inline errors.
type ValidationError struct {
	fields map[string]string
}

// NewValidationError creates a ValidationError from a field -> message map.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{fields: maps.Clone(fields)}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.fields[k])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns a copy of the field -> message map.
func (e *ValidationError) Fields() map[string]string {
	return maps.Clone(e.fields)
}

// Is lets errors.Is(err, ErrValidationFailed) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// HTTPCode returns the HTTP status code
func (e *ValidationError) HTTPCode() int {
	return http.StatusBadRequest
}

// ErrorCode returns the business error code
func (e *ValidationError) ErrorCode() string {
	return ErrValidationFailed.ErrorCode()
}

// Message returns the user-friendly error message
func (e *ValidationError) Message() string {
	return ErrValidationFailed.Message()
}

// Details returns detailed error information
func (e *ValidationError) Details() string {
	return ""
}
