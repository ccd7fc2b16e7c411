// Package errors provides the structured error type used across hikes.
//
// Every package reports failures as *HikesError values carrying a type,
// a stable code and optional context, so the CLI can print a consistent
// message and callers can branch with errors.Is and the Is* helpers.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeSecurity   ErrorType = "security"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeInvalidPath      = "ERR_INVALID_PATH"
	ErrCodePathTraversal    = "ERR_PATH_TRAVERSAL"
	ErrCodeInvalidOrigin    = "ERR_INVALID_ORIGIN"
	ErrCodePageNotFound     = "ERR_PAGE_NOT_FOUND"
	ErrCodeRenderFailed     = "ERR_RENDER_FAILED"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeFontUnavailable  = "ERR_FONT_UNAVAILABLE"
	ErrCodeFileNotFound     = "ERR_FILE_NOT_FOUND"
	ErrCodePermission       = "ERR_PERMISSION_DENIED"
	ErrCodeIOFailed         = "ERR_IO_FAILED"
	ErrCodeInternalError    = "ERR_INTERNAL"
	ErrCodeValidationFailed = "ERR_VALIDATION_FAILED"
)

// HikesError is a structured error type with context.
type HikesError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Path        string
	Recoverable bool
}

// Error implements the error interface.
func (e *HikesError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Path != "" {
		parts = append(parts, e.Path)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *HikesError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison on type and code.
func (e *HikesError) Is(target error) bool {
	var t *HikesError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *HikesError) WithContext(key string, value interface{}) *HikesError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithPath records the file or URL path the error relates to.
func (e *HikesError) WithPath(path string) *HikesError {
	e.Path = path

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *HikesError {
	return &HikesError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewSecurityError creates a security error.
func NewSecurityError(code, message string) *HikesError {
	return &HikesError{
		Type:    ErrorTypeSecurity,
		Code:    code,
		Message: message,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *HikesError {
	return &HikesError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewNetworkError creates a network error.
func NewNetworkError(code, message string, cause error) *HikesError {
	return &HikesError{
		Type:        ErrorTypeNetwork,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var he *HikesError
	if errors.As(err, &he) {
		return he.Recoverable
	}

	return false
}

// IsType reports whether err is a HikesError of the given type.
func IsType(err error, errType ErrorType) bool {
	var he *HikesError
	if errors.As(err, &he) {
		return he.Type == errType
	}

	return false
}

// IsSecurityError checks if an error is security-related.
func IsSecurityError(err error) bool {
	return IsType(err, ErrorTypeSecurity)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// ErrInvalidPath creates a path validation error.
func ErrInvalidPath(path string) *HikesError {
	return NewValidationError(ErrCodeInvalidPath, "invalid path").WithPath(path)
}

// ErrPathTraversal creates a path traversal security error.
func ErrPathTraversal(path string) *HikesError {
	return NewSecurityError(ErrCodePathTraversal, "path traversal attempt").WithPath(path)
}

// ErrInvalidOrigin creates an invalid origin security error.
func ErrInvalidOrigin(origin string) *HikesError {
	return NewSecurityError(ErrCodeInvalidOrigin, "invalid origin: "+origin)
}

// ErrPageNotFound creates a page not found error.
func ErrPageNotFound(slug string) *HikesError {
	return NewValidationError(ErrCodePageNotFound, "page not found: "+slug)
}
