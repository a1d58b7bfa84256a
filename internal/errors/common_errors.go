package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrTypeSchema marks missing or unknown CSV columns.
	ErrTypeSchema ErrorType = "SCHEMA"
	// ErrTypeCoercion marks a cell that cannot be coerced to its declared type.
	ErrTypeCoercion ErrorType = "TYPE"
	// ErrTypeRange marks a numeric value outside its documented domain.
	ErrTypeRange ErrorType = "RANGE"
	// ErrTypeEmptyResult marks a filter that yields no rows, or a KPI
	// computed over zero rows. Callers surface it to the user instead of
	// charting nothing.
	ErrTypeEmptyResult ErrorType = "EMPTY_RESULT"
	ErrTypeIO          ErrorType = "IO"
	ErrTypeValidation  ErrorType = "VALIDATION"
	ErrTypeNotFound    ErrorType = "NOT_FOUND"
	ErrTypeConfig      ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err is (or wraps) an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// IsEmptyResult reports whether err is the empty-result condition.
func IsEmptyResult(err error) bool {
	return IsType(err, ErrTypeEmptyResult)
}

// Helper functions for common error types

// NewSchemaError creates a schema error for missing or malformed columns
func NewSchemaError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSchema, message, cause)
}

// NewCoercionError creates a type-coercion error for an unparseable cell
func NewCoercionError(message string, cause error) *AppError {
	return NewAppError(ErrTypeCoercion, message, cause)
}

// NewRangeError creates a range error for an out-of-domain value
func NewRangeError(message string) *AppError {
	return NewAppError(ErrTypeRange, message, nil)
}

// NewEmptyResultError creates an empty-result error
func NewEmptyResultError(message string) *AppError {
	return NewAppError(ErrTypeEmptyResult, message, nil)
}

// NewIOError creates an I/O error
func NewIOError(message string, cause error) *AppError {
	return NewAppError(ErrTypeIO, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *AppError {
	return NewAppError(ErrTypeNotFound, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
