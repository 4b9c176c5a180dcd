// Package errors provides structured error handling for reconkit operations.
// It defines error codes, error types, and provides utilities for creating
// and handling errors with context and structured information.
package errors

import (
	"fmt"
)

// ErrorCode represents different types of errors that can occur.
type ErrorCode string

const (
	// General errors.
	CodeUnknown       ErrorCode = "UNKNOWN"
	CodeValidation    ErrorCode = "VALIDATION"
	CodeConfiguration ErrorCode = "CONFIGURATION"
	CodeTimeout       ErrorCode = "TIMEOUT"
	CodeCanceled      ErrorCode = "CANCELED"
	CodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	CodeInternal      ErrorCode = "INTERNAL"

	// Probe execution errors.
	CodeExecution       ErrorCode = "EXECUTION"
	CodeToolUnavailable ErrorCode = "TOOL_UNAVAILABLE"
)

// ValidationError represents a rejected input. It is always raised before
// any external process is spawned and is never retriable.
type ValidationError struct {
	Code    ErrorCode
	Message string
	Field   string
	Value   interface{}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewValidationFieldError creates a validation error for a specific field.
func NewValidationFieldError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		Code:    CodeValidation,
		Message: message,
		Field:   field,
		Value:   value,
	}
}

// ExecutionError represents an external process that ran but produced no
// usable output together with a nonzero or timed-out exit.
type ExecutionError struct {
	Code     ErrorCode
	Message  string
	Command  string
	ExitCode int
	Stderr   string
	Cause    error
	Context  map[string]interface{}
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Command != "" {
		return fmt.Sprintf("[%s] %s (command: %s)", e.Code, e.Message, e.Command)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *ExecutionError) WithContext(key string, value interface{}) *ExecutionError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewExecutionError creates a new execution error for a command.
func NewExecutionError(message, command string) *ExecutionError {
	return &ExecutionError{
		Code:    CodeExecution,
		Message: message,
		Command: command,
		Context: make(map[string]interface{}),
	}
}

// WrapExecutionError wraps an existing error as an execution error.
func WrapExecutionError(message, command string, err error) *ExecutionError {
	return &ExecutionError{
		Code:    CodeExecution,
		Message: message,
		Command: command,
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// ToolUnavailableError represents a missing external tool (exit code 127).
// Port scanning consumes it as the fallback trigger; every other operation
// surfaces it to the caller as-is.
type ToolUnavailableError struct {
	Code    ErrorCode
	Message string
	Tool    string
	Cause   error
}

// Error implements the error interface.
func (e *ToolUnavailableError) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("[%s] %s (tool: %s)", e.Code, e.Message, e.Tool)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ToolUnavailableError) Unwrap() error {
	return e.Cause
}

// NewToolUnavailableError creates a new tool-unavailable error.
func NewToolUnavailableError(tool string) *ToolUnavailableError {
	return &ToolUnavailableError{
		Code:    CodeToolUnavailable,
		Message: fmt.Sprintf("Command not found: %s", tool),
		Tool:    tool,
	}
}

// AuthorizationError represents an operation attempted without a confirmed
// authorization capability.
type AuthorizationError struct {
	Code    ErrorCode
	Message string
	Reason  string
}

// Error implements the error interface.
func (e *AuthorizationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("[%s] %s (reason: %s)", e.Code, e.Message, e.Reason)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewAuthorizationError creates a new authorization error.
func NewAuthorizationError(reason string) *AuthorizationError {
	return &AuthorizationError{
		Code:    CodeUnauthorized,
		Message: "Operation not authorized",
		Reason:  reason,
	}
}

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Code    ErrorCode
	Message string
	Field   string
	Value   interface{}
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new configuration error.
func NewConfigError(code ErrorCode, message string) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
	}
}

// NewConfigFieldError creates a configuration error for a specific field.
func NewConfigFieldError(code ErrorCode, message, field string, value interface{}) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Field:   field,
		Value:   value,
	}
}

// WrapConfigError wraps an existing error as a configuration error.
func WrapConfigError(code ErrorCode, message string, err error) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Utility functions for common error operations

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	switch e := err.(type) {
	case *ValidationError:
		return e.Code == code
	case *ExecutionError:
		return e.Code == code
	case *ToolUnavailableError:
		return e.Code == code
	case *AuthorizationError:
		return e.Code == code
	case *ConfigError:
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error if it has one.
func GetCode(err error) ErrorCode {
	switch e := err.(type) {
	case *ValidationError:
		return e.Code
	case *ExecutionError:
		return e.Code
	case *ToolUnavailableError:
		return e.Code
	case *AuthorizationError:
		return e.Code
	case *ConfigError:
		return e.Code
	}
	return CodeUnknown
}

// IsValidation reports whether the error is an input validation failure.
func IsValidation(err error) bool {
	return IsCode(err, CodeValidation)
}

// IsToolUnavailable reports whether the error means the external tool binary
// is missing (exit code 127).
func IsToolUnavailable(err error) bool {
	return IsCode(err, CodeToolUnavailable)
}

// IsUnauthorized reports whether the error is an authorization rejection.
func IsUnauthorized(err error) bool {
	return IsCode(err, CodeUnauthorized)
}

// IsRetryable determines if an error indicates a retryable condition.
// Execution failures may succeed when the user retries; validation and
// authorization failures never will.
func IsRetryable(err error) bool {
	code := GetCode(err)
	switch code {
	case CodeTimeout, CodeExecution, CodeToolUnavailable:
		return true
	default:
		return false
	}
}

// IsFatal determines if an error indicates a fatal condition that should stop execution.
func IsFatal(err error) bool {
	code := GetCode(err)
	switch code {
	case CodeConfiguration, CodeUnauthorized:
		return true
	default:
		return false
	}
}

// Common error creation functions

// ErrEmptyTarget creates an error for a blank target string.
func ErrEmptyTarget() *ValidationError {
	return NewValidationError("Target must not be empty")
}

// ErrDisallowedCharacters creates an error for targets carrying shell
// metacharacters or line breaks.
func ErrDisallowedCharacters(target string) *ValidationError {
	return NewValidationFieldError("Target contains disallowed characters", "target", target)
}

// ErrTargetTooLong creates an error for over-length targets.
func ErrTargetTooLong(length int) *ValidationError {
	return NewValidationFieldError("Target too long", "target", length)
}

// ErrInvalidPort creates an error for a single out-of-range port token.
func ErrInvalidPort(token string) *ValidationError {
	return NewValidationFieldError(fmt.Sprintf("Invalid port: %s", token), "ports", token)
}

// ErrInvalidPortRange creates an error for a malformed lo-hi range token.
func ErrInvalidPortRange(token string) *ValidationError {
	return NewValidationFieldError(fmt.Sprintf("Invalid port range: %s", token), "ports", token)
}

// ErrTooManyPorts creates an error for port specs that expand past the
// socket-fallback cap.
func ErrTooManyPorts(limit int) *ValidationError {
	return NewValidationFieldError(
		fmt.Sprintf("Too many ports (max %d for socket fallback)", limit), "ports", limit)
}

// ErrExecutionFailed creates an error for a probe that exited nonzero with
// no usable output.
func ErrExecutionFailed(command, stderr string, exitCode int) *ExecutionError {
	e := NewExecutionError(fmt.Sprintf("%s failed: %s", command, stderr), command)
	e.ExitCode = exitCode
	e.Stderr = stderr
	return e
}

// ErrCommandTimeout creates an error for a probe killed at its deadline.
func ErrCommandTimeout(command string) *ExecutionError {
	return &ExecutionError{
		Code:     CodeTimeout,
		Message:  "Command timed out",
		Command:  command,
		ExitCode: 1,
		Context:  make(map[string]interface{}),
	}
}

// ErrToolNotFound creates an error for a missing external binary.
func ErrToolNotFound(tool string) *ToolUnavailableError {
	return NewToolUnavailableError(tool)
}

// ErrUnauthorized creates an error for operations attempted before the
// authorization gate is confirmed.
func ErrUnauthorized(reason string) *AuthorizationError {
	return NewAuthorizationError(reason)
}

// ErrConfigInvalid creates an error for invalid configuration.
func ErrConfigInvalid(field string, value interface{}) *ConfigError {
	return NewConfigFieldError(CodeValidation, "Invalid configuration value", field, value)
}

// ErrConfigMissing creates an error for missing required configuration.
func ErrConfigMissing(field string) *ConfigError {
	return NewConfigFieldError(CodeConfiguration, "Required configuration field missing", field, nil)
}
