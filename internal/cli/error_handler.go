package cli

import (
	"errors"

	"task-calendar/internal/config"
	apperrors "task-calendar/internal/errors"
	"task-calendar/internal/validation"
)

// Process exit codes, by error category.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitInput    = 2
	ExitAuth     = 3
	ExitNotFound = 4
	ExitStorage  = 5
)

// CommandError is returned by a failed command. Its text is safe to print;
// the cause stays reachable through Unwrap for classification.
type CommandError struct {
	Operation string
	Message   string
	Err       error
}

func (e *CommandError) Error() string {
	if e.Operation == "" {
		return e.Message
	}
	return "failed to " + e.Operation + ": " + e.Message
}

func (e *CommandError) Unwrap() error { return e.Err }

// ErrorHandler turns service errors into terminal output and exit codes.
type ErrorHandler struct{}

func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle tags err with the operation that failed. Nil stays nil, and an
// error that already went through Handle is returned unchanged.
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	var handled *CommandError
	if errors.As(err, &handled) {
		return err
	}
	return &CommandError{Operation: operation, Message: eh.message(err), Err: err}
}

func (eh *ErrorHandler) HandleSimple(err error) error {
	return eh.Handle("", err)
}

func (eh *ErrorHandler) message(err error) string {
	if _, ok := apperrors.AsAppError(err); ok {
		return apperrors.GetUserMessage(err)
	}
	if ve, ok := validation.AsValidationError(err); ok {
		return ve.GetUserFriendlyMessage()
	}
	return err.Error()
}

func (eh *ErrorHandler) IsValidationError(err error) bool {
	return validation.IsValidationError(err) || apperrors.IsErrorType(err, apperrors.ErrorTypeValidation)
}

// IsAuthError covers signup, login and a missing session.
func (eh *ErrorHandler) IsAuthError(err error) bool {
	return apperrors.IsErrorType(err, apperrors.ErrorTypeAuth)
}

func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound)
}

func (eh *ErrorHandler) IsPersistenceError(err error) bool {
	return apperrors.IsErrorType(err, apperrors.ErrorTypePersistence) ||
		apperrors.IsErrorType(err, apperrors.ErrorTypeTimeout)
}

func (eh *ErrorHandler) GetErrorCode(err error) string {
	return apperrors.GetErrorCode(err)
}

// ExitCode maps err to the process exit status.
func (eh *ErrorHandler) ExitCode(err error) int {
	var configErr *config.ConfigError
	switch {
	case err == nil:
		return ExitOK
	case eh.IsValidationError(err), apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput), errors.As(err, &configErr):
		return ExitInput
	case eh.IsAuthError(err):
		return ExitAuth
	case eh.IsNotFoundError(err):
		return ExitNotFound
	case eh.IsPersistenceError(err):
		return ExitStorage
	}
	return ExitFailure
}

// ExitCode is the exit status main should use for an Execute error.
func ExitCode(err error) int {
	return NewErrorHandler().ExitCode(err)
}
