// Package errors provides homer's coded error type.
//
// Every error that crosses a package boundary carries an ErrorCode so tests
// and the CLI can classify failures without matching on message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrNoHome       ErrorCode = "NO_HOME"
	ErrIO           ErrorCode = "IO"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrIgnoreLoad  ErrorCode = "IGNORE_LOAD"

	// Plan errors
	ErrUnresolvedConflict ErrorCode = "UNRESOLVED_CONFLICT"
	ErrDuplicateAction    ErrorCode = "DUPLICATE_ACTION"

	// Action errors
	ErrActionInvalid   ErrorCode = "ACTION_INVALID"
	ErrActionExecute   ErrorCode = "ACTION_EXECUTE"
	ErrBackupCollision ErrorCode = "BACKUP_COLLISION"

	// FileSystem errors
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
	ErrFileRemove    ErrorCode = "FILE_REMOVE"
	ErrFileRename    ErrorCode = "FILE_RENAME"

	// Script errors
	ErrScriptFailure ErrorCode = "SCRIPT_FAILURE"
)

// HomerError represents a structured error with code and details
type HomerError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *HomerError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *HomerError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a HomerError with the same code
func (e *HomerError) Is(target error) bool {
	var targetErr *HomerError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new HomerError with the given code and message
func New(code ErrorCode, message string) *HomerError {
	return &HomerError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new HomerError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *HomerError {
	return &HomerError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a HomerError. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *HomerError {
	if err == nil {
		return nil
	}
	return &HomerError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *HomerError {
	if err == nil {
		return nil
	}
	return &HomerError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *HomerError) WithDetail(key string, value interface{}) *HomerError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var homerErr *HomerError
	if errors.As(err, &homerErr) {
		return homerErr.Code == code
	}
	return false
}

// HasErrorCode reports whether any HomerError in err's chain carries code.
func HasErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var homerErr *HomerError
		if !errors.As(err, &homerErr) {
			return false
		}
		if homerErr.Code == code {
			return true
		}
		err = homerErr.Wrapped
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a HomerError
func GetErrorCode(err error) ErrorCode {
	var homerErr *HomerError
	if errors.As(err, &homerErr) {
		return homerErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a HomerError
func GetErrorDetails(err error) map[string]interface{} {
	var homerErr *HomerError
	if errors.As(err, &homerErr) {
		return homerErr.Details
	}
	return nil
}
