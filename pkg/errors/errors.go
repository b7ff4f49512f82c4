package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an error category independently of its message
type ErrorCode string

const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Loading errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Schema errors
	ErrConfigInvalid   ErrorCode = "CONFIG_INVALID"
	ErrMissingSection  ErrorCode = "MISSING_SECTION"
	ErrInvalidPattern  ErrorCode = "INVALID_PATTERN"
	ErrUnknownCategory ErrorCode = "UNKNOWN_CATEGORY"

	// Matching errors
	ErrPatternMatch ErrorCode = "PATTERN_MATCH"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
)

// ConfigError is a structured error carrying a stable code and details
// describing where in the descriptor the problem was found.
type ConfigError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a ConfigError with the same code
func (e *ConfigError) Is(target error) bool {
	var targetErr *ConfigError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ConfigError with the given code and message
func New(code ErrorCode, message string) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ConfigError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ConfigError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err in a ConfigError. It returns nil when err is nil.
func Wrap(err error, code ErrorCode, message string) *ConfigError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps err with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ConfigError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *ConfigError) WithDetail(key string, value interface{}) *ConfigError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *ConfigError) WithDetails(details map[string]interface{}) *ConfigError {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// IsConfigError reports whether err is or wraps a ConfigError
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ConfigError
func GetErrorCode(err error) ErrorCode {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ConfigError
func GetErrorDetails(err error) map[string]interface{} {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Details
	}
	return nil
}
