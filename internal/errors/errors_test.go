package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name    string
		err     *AppError
		kind    ErrorType
		code    string
		message string
		fields  map[string]any
	}{
		{
			name:    "validation",
			err:     NewValidationError("invalid task", cause),
			kind:    ErrorTypeValidation,
			code:    CodeValidationFailed,
			message: "invalid task",
		},
		{
			name:    "not found",
			err:     NewNotFoundError("account", "ana@example.com"),
			kind:    ErrorTypeNotFound,
			code:    CodeNotFound,
			message: "account not found: ana@example.com",
			fields:  map[string]any{"resource": "account", "identifier": "ana@example.com"},
		},
		{
			name:    "task not found",
			err:     NewTaskNotFoundError("abc"),
			kind:    ErrorTypeNotFound,
			code:    CodeTaskNotFound,
			message: "task not found: abc",
			fields:  map[string]any{"identifier": "abc"},
		},
		{
			name:    "index out of range",
			err:     NewIndexOutOfRangeError(4, 2),
			kind:    ErrorTypeNotFound,
			code:    CodeIndexOutOfRange,
			message: "task index 4 out of range (account has 2 tasks)",
			fields:  map[string]any{"index": 4, "size": 2},
		},
		{
			name:    "persistence",
			err:     NewPersistenceError("save snapshot", cause),
			kind:    ErrorTypePersistence,
			code:    CodePersistence,
			message: "persistence operation failed: save snapshot",
			fields:  map[string]any{"operation": "save snapshot"},
		},
		{
			name:    "invalid input",
			err:     NewInvalidInputError("priority", "high", "must be a whole number"),
			kind:    ErrorTypeInvalidInput,
			code:    CodeInvalidInput,
			message: "invalid input for priority: must be a whole number",
			fields:  map[string]any{"field": "priority", "value": "high", "reason": "must be a whole number"},
		},
		{
			name:    "timeout",
			err:     NewTimeoutError("load", time.Second),
			kind:    ErrorTypeTimeout,
			code:    CodeTimeout,
			message: "operation timed out: load",
			fields:  map[string]any{"operation": "load", "timeout": time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Type)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.message, tt.err.Message)
			for k, want := range tt.fields {
				got, ok := tt.err.Field(k)
				if assert.True(t, ok, "field %s", k) {
					assert.Equal(t, want, got, "field %s", k)
				}
			}
		})
	}
}

func TestConstructedErrorsMatchSentinels(t *testing.T) {
	assert.ErrorIs(t, NewTaskNotFoundError("abc"), ErrTaskNotFound)
	assert.ErrorIs(t, NewIndexOutOfRangeError(1, 0), ErrIndexOutOfRange)
	assert.NotErrorIs(t, NewIndexOutOfRangeError(1, 0), ErrTaskNotFound)
}

func TestNewAuthErrorLeavesSentinelUntouched(t *testing.T) {
	err := NewAuthError(ErrEmailTaken, "ana@example.com")

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, ErrEmailTaken.Message, err.Message)
	email, _ := err.Field("email")
	assert.Equal(t, "ana@example.com", email)

	assert.Nil(t, ErrEmailTaken.Fields)
	assert.NotSame(t, ErrEmailTaken, err)
}

func TestWrapErrorUsesTypeAsCode(t *testing.T) {
	cause := errors.New("locked")
	err := WrapError(cause, ErrorTypePersistence, "open store")

	assert.Equal(t, "persistence", err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestAsAppErrorThroughWrapping(t *testing.T) {
	inner := NewTaskNotFoundError("abc")
	outer := fmt.Errorf("edit: %w", inner)

	got, ok := AsAppError(outer)
	require.True(t, ok)
	assert.Same(t, inner, got)
	assert.True(t, IsAppError(outer))
	assert.True(t, IsErrorType(outer, ErrorTypeNotFound))
	assert.False(t, IsErrorType(outer, ErrorTypeAuth))

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsErrorType(errors.New("plain"), ErrorTypeNotFound))
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"auth keeps message", NewAuthError(ErrWrongPassword, "a@b.co"), "incorrect password"},
		{"not found keeps message", NewTaskNotFoundError("x"), "task not found: x"},
		{"input keeps message", NewInvalidInputError("index", "#a", "not a number"), "invalid input for index: not a number"},
		{"persistence is generic", NewPersistenceError("save", errors.New("EIO")), "Your changes could not be saved. Please try again."},
		{"timeout is generic", NewTimeoutError("save", time.Second), "The operation timed out. Please try again."},
		{"unknown type", &AppError{Type: "odd", Message: "secret"}, "An unexpected error occurred. Please try again."},
		{"plain error", errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetUserMessage(tt.err))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, CodeEmailTaken, GetErrorCode(NewAuthError(ErrEmailTaken, "x")))
	assert.Equal(t, CodeUnknown, GetErrorCode(errors.New("plain")))
}

func TestShouldLogError(t *testing.T) {
	assert.False(t, ShouldLogError(NewValidationError("bad", nil)))
	assert.False(t, ShouldLogError(NewAuthError(ErrNotLoggedIn, "")))
	assert.False(t, ShouldLogError(NewIndexOutOfRangeError(0, 0)))
	assert.True(t, ShouldLogError(NewPersistenceError("save", nil)))
	assert.True(t, ShouldLogError(NewTimeoutError("save", 0)))
	assert.True(t, ShouldLogError(errors.New("plain")))
}
