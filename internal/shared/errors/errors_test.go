package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Behavior(t *testing.T) {
	err := NewValidationError("invalid input").WithCode("VAL001").WithDetail("field", "name").WithComponent("test-component")
	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "VAL001", err.Code)
	assert.Equal(t, "test-component", err.Component)
	assert.Equal(t, "name", err.Details["field"])
	assert.Equal(t, "invalid input", err.Error())
}

func TestAppError_WithCause_Unwrap(t *testing.T) {
	err := NewConfigurationError("not ready").WithCause(ErrNotAuthorized)
	assert.Equal(t, ErrNotAuthorized, err.Unwrap())
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestWrapError(t *testing.T) {
	wrapped := WrapError(ErrOracleUnavailable, "call failed")
	assert.Equal(t, ErrorTypeInternal, wrapped.Type)
	assert.ErrorIs(t, wrapped, ErrOracleUnavailable)

	app := NewValidationError("bad")
	assert.Same(t, app, WrapError(app, "ignored"))
}

func TestTypePredicates(t *testing.T) {
	cfg := NewConfigurationError("missing credential")
	assert.True(t, IsConfiguration(cfg))
	assert.False(t, IsAuthorization(cfg))

	authz := NewAuthorizationError("token rejected")
	assert.True(t, IsAuthorization(authz))

	compile := NewRulesCompilationError("bad rules")
	assert.True(t, IsRulesCompilation(compile))
	assert.False(t, IsRulesCompilation(cfg))

	assertion := NewAssertionError("expectation not met")
	assert.True(t, IsAssertion(assertion))

	val := NewValidationError("bad")
	assert.True(t, IsValidation(val))
	assert.False(t, IsValidation(assertion))
}
