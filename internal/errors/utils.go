package errors

import (
	"errors"
	"io/fs"
)

// Wrap wraps an error with additional context, creating a HikesError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *HikesError {
	if err == nil {
		return nil
	}

	// Keep the path and context of an inner HikesError
	var he *HikesError
	if errors.As(err, &he) {
		return &HikesError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       he,
			Context:     he.Context,
			Path:        he.Path,
			Recoverable: he.Recoverable,
		}
	}

	return &HikesError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeRender,
	}
}

// WrapRender wraps an error as a render error for the given page path
func WrapRender(err error, message, path string) *HikesError {
	he := Wrap(err, ErrorTypeRender, ErrCodeRenderFailed, message)
	if he != nil && path != "" {
		he.Path = path
	}
	return he
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *HikesError {
	he := Wrap(err, ErrorTypeIO, code, message)
	if he != nil {
		he.Recoverable = false
	}
	return he
}

// IOCode picks the error code for a filesystem failure.
func IOCode(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeFileNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrCodePermission
	default:
		return ErrCodeIOFailed
	}
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, code, message string) *HikesError {
	he := Wrap(err, ErrorTypeConfig, code, message)
	if he != nil {
		he.Recoverable = false
	}
	return he
}

// FormatError formats an error for user display
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var he *HikesError
	if errors.As(err, &he) {
		return he.Error()
	}

	return err.Error()
}
