// Package errors provides custom error types and error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes.
const (
	// Decoding errors.
	CodeUnknownVariant  = "UNKNOWN_VARIANT"
	CodeMalformedStream = "MALFORMED_STREAM"

	// Programming errors raised during initialization.
	CodeDuplicateRegistration = "DUPLICATE_REGISTRATION"

	// Caller errors.
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"

	// Collaborator errors.
	CodeInternal    = "INTERNAL_ERROR"
	CodeUnavailable = "SERVICE_UNAVAILABLE"
	CodeTimeout     = "TIMEOUT"
)

// AppError represents an application error with code and details.
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError.
func Wrap(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails adds details to the error.
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// WithDetail adds a single detail to the error.
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Convenience constructors.

// UnknownVariantError reports a breakdown name with no registered decoder.
func UnknownVariantError(name string) *AppError {
	return New(CodeUnknownVariant, fmt.Sprintf("unknown metric breakdown %q", name)).
		WithDetail("name", name)
}

// MalformedStreamError reports a stream whose prefixes disagree with its contents.
func MalformedStreamError(message string) *AppError {
	return New(CodeMalformedStream, message)
}

// DuplicateRegistrationError reports a breakdown name registered twice.
func DuplicateRegistrationError(name string) *AppError {
	return New(CodeDuplicateRegistration, fmt.Sprintf("metric breakdown %q already registered", name)).
		WithDetail("name", name)
}

// ValidationError creates a validation error.
func ValidationError(message string) *AppError {
	return New(CodeValidation, message)
}

// NotFoundError creates a not found error.
func NotFoundError(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// InternalError creates an internal error.
func InternalError(message string, err error) *AppError {
	return Wrap(CodeInternal, message, err)
}

// ServiceUnavailableError creates a service unavailable error.
func ServiceUnavailableError(service string) *AppError {
	message := "service unavailable"
	if service != "" {
		message = fmt.Sprintf("%s is unavailable", service)
	}
	return New(CodeUnavailable, message)
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsUnknownVariant checks if error is an unknown variant error.
func IsUnknownVariant(err error) bool {
	return CodeOf(err) == CodeUnknownVariant
}

// IsMalformedStream checks if error is a malformed stream error.
func IsMalformedStream(err error) bool {
	return CodeOf(err) == CodeMalformedStream
}

// IsDuplicateRegistration checks if error is a duplicate registration error.
func IsDuplicateRegistration(err error) bool {
	return CodeOf(err) == CodeDuplicateRegistration
}

// IsNotFound checks if error is a not found error.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsValidation checks if error is a validation error.
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}
