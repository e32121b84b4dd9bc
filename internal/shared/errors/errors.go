package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for different domains
type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "VALIDATION_ERROR"
	ErrorTypeConfiguration    ErrorType = "CONFIGURATION_ERROR"
	ErrorTypeAuthorization    ErrorType = "AUTHORIZATION_ERROR"
	ErrorTypeRulesCompilation ErrorType = "RULES_COMPILATION_ERROR"
	ErrorTypeOracleTransport  ErrorType = "ORACLE_TRANSPORT_ERROR"
	ErrorTypeAssertion        ErrorType = "ASSERTION_ERROR"
	ErrorTypeInfrastructure   ErrorType = "INFRASTRUCTURE_ERROR"
	ErrorTypeNotFound         ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeInternal         ErrorType = "INTERNAL_ERROR"
)

// Common application errors
var (
	ErrNotAuthorized      = errors.New("client is not authorized; call Authorize first")
	ErrNotInitialized     = errors.New("suite is not initialized; call Authorize first")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)

// Rules-testing specific errors
var (
	ErrInvalidPath         = errors.New("invalid document path")
	ErrEmptyRules          = errors.New("rules source is empty")
	ErrRulesCompilation    = errors.New("rules source failed to compile")
	ErrOracleUnavailable   = errors.New("rules evaluation service unavailable")
	ErrUnsupportedOp       = errors.New("unsupported batch operation")
	ErrResultCountMismatch = errors.New("oracle returned a different number of results than cases")
)

// AppError represents a custom application error with context
type AppError struct {
	Type      ErrorType              `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	HTTPCode  int                    `json:"-"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Component string                 `json:"component,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, httpCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		HTTPCode: httpCode,
		Details:  make(map[string]interface{}),
	}
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// WithDetail adds a detail field
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Common error constructors

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message, http.StatusBadRequest)
}

// NewConfigurationError creates a configuration error, used when an operation is
// invoked before the client has been set up for it.
func NewConfigurationError(message string) *AppError {
	return NewAppError(ErrorTypeConfiguration, message, http.StatusPreconditionFailed)
}

// NewAuthorizationError creates an authorization error
func NewAuthorizationError(message string) *AppError {
	return NewAppError(ErrorTypeAuthorization, message, http.StatusUnauthorized)
}

// NewRulesCompilationError creates an error for rules sources rejected by the oracle
func NewRulesCompilationError(message string) *AppError {
	return NewAppError(ErrorTypeRulesCompilation, message, http.StatusBadRequest)
}

// NewOracleTransportError creates an error for failed calls to the evaluation service
func NewOracleTransportError(message string) *AppError {
	return NewAppError(ErrorTypeOracleTransport, message, http.StatusBadGateway)
}

// NewAssertionError creates an error for a test whose outcome did not match its expectation
func NewAssertionError(message string) *AppError {
	return NewAppError(ErrorTypeAssertion, message, http.StatusExpectationFailed)
}

// NewInfrastructureError creates an infrastructure error
func NewInfrastructureError(message string) *AppError {
	return NewAppError(ErrorTypeInfrastructure, message, http.StatusInternalServerError)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
}

// Helper functions for common error scenarios

// WrapError wraps an error with context
func WrapError(err error, message string) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// IsConfiguration checks if an error is a configuration error
func IsConfiguration(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeConfiguration
	}
	return errors.Is(err, ErrNotAuthorized) || errors.Is(err, ErrNotInitialized)
}

// IsAuthorization checks if an error is an authorization error
func IsAuthorization(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeAuthorization
	}
	return errors.Is(err, ErrInvalidCredentials)
}

// IsRulesCompilation checks if an error reports a rules source rejected by the oracle
func IsRulesCompilation(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeRulesCompilation
	}
	return errors.Is(err, ErrRulesCompilation)
}

// IsAssertion checks if an error is an assertion failure
func IsAssertion(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeAssertion
	}
	return false
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeValidation
	}
	return false
}
