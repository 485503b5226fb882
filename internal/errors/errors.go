package errors

import (
	"errors"
	"fmt"
)

const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodePersistence      = "PERSISTENCE_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeTimeout          = "TIMEOUT"
	CodeUnknown          = "UNKNOWN_ERROR"

	CodeEmailNotFound   = "EMAIL_NOT_FOUND"
	CodeWrongPassword   = "WRONG_PASSWORD"
	CodeEmailTaken      = "EMAIL_TAKEN"
	CodeInvalidEmail    = "INVALID_EMAIL"
	CodeWeakPassword    = "WEAK_PASSWORD"
	CodeNotLoggedIn     = "NOT_LOGGED_IN"
	CodeIndexOutOfRange = "INDEX_OUT_OF_RANGE"
	CodeTaskNotFound    = "TASK_NOT_FOUND"
)

// Sentinels for errors.Is.
var (
	ErrEmailNotFound   = newError(ErrorTypeAuth, CodeEmailNotFound, "email not found", nil)
	ErrWrongPassword   = newError(ErrorTypeAuth, CodeWrongPassword, "incorrect password", nil)
	ErrEmailTaken      = newError(ErrorTypeAuth, CodeEmailTaken, "email is already taken", nil)
	ErrInvalidEmail    = newError(ErrorTypeAuth, CodeInvalidEmail, "invalid email format", nil)
	ErrWeakPassword    = newError(ErrorTypeAuth, CodeWeakPassword, "password must be at least 8 characters and include one letter and one number", nil)
	ErrNotLoggedIn     = newError(ErrorTypeAuth, CodeNotLoggedIn, "no account is logged in", nil)
	ErrIndexOutOfRange = newError(ErrorTypeNotFound, CodeIndexOutOfRange, "task index out of range", nil)
	ErrTaskNotFound    = newError(ErrorTypeNotFound, CodeTaskNotFound, "task not found", nil)
)

func newError(errorType ErrorType, code, message string, cause error) *AppError {
	return &AppError{Type: errorType, Code: code, Message: message, Cause: cause}
}

func NewValidationError(message string, cause error) *AppError {
	return newError(ErrorTypeValidation, CodeValidationFailed, message, cause)
}

func NewNotFoundError(resource, identifier string) *AppError {
	return newError(ErrorTypeNotFound, CodeNotFound, fmt.Sprintf("%s not found: %s", resource, identifier), nil).
		With("resource", resource).
		With("identifier", identifier)
}

// NewTaskNotFoundError reports an ID with no task in the logged-in account.
func NewTaskNotFoundError(id string) *AppError {
	return newError(ErrorTypeNotFound, CodeTaskNotFound, "task not found: "+id, nil).
		With("identifier", id)
}

// NewIndexOutOfRangeError reports a position outside [0, size).
func NewIndexOutOfRangeError(index, size int) *AppError {
	msg := fmt.Sprintf("task index %d out of range (account has %d tasks)", index, size)
	return newError(ErrorTypeNotFound, CodeIndexOutOfRange, msg, nil).
		With("index", index).
		With("size", size)
}

func NewPersistenceError(operation string, cause error) *AppError {
	return newError(ErrorTypePersistence, CodePersistence, "persistence operation failed: "+operation, cause).
		With("operation", operation)
}

func NewInvalidInputError(field string, value any, reason string) *AppError {
	msg := fmt.Sprintf("invalid input for %s: %s", field, reason)
	return newError(ErrorTypeInvalidInput, CodeInvalidInput, msg, nil).
		With("field", field).
		With("value", value).
		With("reason", reason)
}

func NewTimeoutError(operation string, timeout any) *AppError {
	return newError(ErrorTypeTimeout, CodeTimeout, "operation timed out: "+operation, nil).
		With("operation", operation).
		With("timeout", timeout)
}

// NewAuthError copies an auth sentinel and tags it with the email supplied
// by the caller. The sentinel itself is never mutated.
func NewAuthError(sentinel *AppError, email string) *AppError {
	return newError(sentinel.Type, sentinel.Code, sentinel.Message, nil).With("email", email)
}

func WrapError(err error, errorType ErrorType, message string) *AppError {
	return newError(errorType, errorType.String(), message, err)
}

func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsErrorType(err error, errorType ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.IsType(errorType)
}

// GetUserMessage returns the text to show on the terminal. Errors the user
// caused keep their message; system failures get a generic retry hint.
func GetUserMessage(err error) string {
	appErr, ok := AsAppError(err)
	if !ok {
		return err.Error()
	}
	if appErr.Type.caller() {
		return appErr.Message
	}
	switch appErr.Type {
	case ErrorTypePersistence:
		return "Your changes could not be saved. Please try again."
	case ErrorTypeTimeout:
		return "The operation timed out. Please try again."
	}
	return "An unexpected error occurred. Please try again."
}

func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return CodeUnknown
}

// ShouldLogError is false for errors the user caused.
func ShouldLogError(err error) bool {
	appErr, ok := AsAppError(err)
	return !ok || !appErr.Type.caller()
}
