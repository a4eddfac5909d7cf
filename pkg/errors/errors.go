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
	ErrFileAccess   ErrorCode = "FILE_ACCESS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Registry errors
	ErrProfileNotFound    ErrorCode = "PROFILE_NOT_FOUND"
	ErrNameConflict       ErrorCode = "NAME_CONFLICT"
	ErrInvalidProfileName ErrorCode = "INVALID_PROFILE_NAME"
	ErrReadOnlyProfile    ErrorCode = "READ_ONLY_PROFILE"
	ErrRegistryCorrupt    ErrorCode = "REGISTRY_CORRUPT"

	// Store errors
	ErrProfileDirectoryMissing ErrorCode = "PROFILE_DIRECTORY_MISSING"

	// Engine errors
	ErrInvalidGamePath             ErrorCode = "INVALID_GAME_PATH"
	ErrCannotDeleteActiveProfile   ErrorCode = "CANNOT_DELETE_ACTIVE_PROFILE"
	ErrCannotDeleteReadOnlyProfile ErrorCode = "CANNOT_DELETE_READ_ONLY_PROFILE"
	ErrInconsistentState           ErrorCode = "INCONSISTENT_STATE"

	// Link errors
	ErrLinkOperationFailed ErrorCode = "LINK_OPERATION_FAILED"

	// Launch errors
	ErrAlreadyRunning ErrorCode = "ALREADY_RUNNING"
)

// CfgswapError represents a structured error with code and details
type CfgswapError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CfgswapError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CfgswapError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CfgswapError) Is(target error) bool {
	var targetErr *CfgswapError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CfgswapError with the given code and message
func New(code ErrorCode, message string) *CfgswapError {
	return &CfgswapError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CfgswapError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CfgswapError {
	return &CfgswapError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CfgswapError
func Wrap(err error, code ErrorCode, message string) *CfgswapError {
	if err == nil {
		return nil
	}
	return &CfgswapError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CfgswapError {
	if err == nil {
		return nil
	}
	return &CfgswapError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CfgswapError) WithDetail(key string, value interface{}) *CfgswapError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *CfgswapError) WithDetails(details map[string]interface{}) *CfgswapError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var cfgErr *CfgswapError
	if errors.As(err, &cfgErr) {
		return cfgErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CfgswapError
func GetErrorCode(err error) ErrorCode {
	var cfgErr *CfgswapError
	if errors.As(err, &cfgErr) {
		return cfgErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a CfgswapError
func GetErrorDetails(err error) map[string]interface{} {
	var cfgErr *CfgswapError
	if errors.As(err, &cfgErr) {
		return cfgErr.Details
	}
	return nil
}
