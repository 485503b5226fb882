package errors

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrorType groups errors by how they are reported. The value doubles as the
// "kind" field in structured logs.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypePersistence  ErrorType = "persistence"
	ErrorTypeInvalidInput ErrorType = "invalid_input"
	ErrorTypeTimeout      ErrorType = "timeout"
	ErrorTypeAuth         ErrorType = "auth"
)

func (et ErrorType) String() string {
	switch et {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypePersistence,
		ErrorTypeInvalidInput, ErrorTypeTimeout, ErrorTypeAuth:
		return string(et)
	}
	return "unknown"
}

// caller reports whether errors of this type were caused by the user's input,
// in which case the message is shown verbatim and nothing is logged.
func (et ErrorType) caller() bool {
	switch et {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypeAuth:
		return true
	}
	return false
}

// AppError is the error value returned across service boundaries.
type AppError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Fields  map[string]any
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(e.Type.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches on type and code so constructed errors compare equal to the
// package sentinels.
func (e *AppError) Is(target error) bool {
	other, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == other.Type && e.Code == other.Code
}

func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// With records a diagnostic field and returns e.
func (e *AppError) With(key string, value any) *AppError {
	if e.Fields == nil {
		e.Fields = map[string]any{}
	}
	e.Fields[key] = value
	return e
}

func (e *AppError) Field(key string) (any, bool) {
	value, ok := e.Fields[key]
	return value, ok
}

// LogFields flattens the error for a logrus entry.
func (e *AppError) LogFields() logrus.Fields {
	fields := make(logrus.Fields, len(e.Fields)+2)
	for k, v := range e.Fields {
		fields[k] = v
	}
	fields["kind"] = e.Type.String()
	fields["code"] = e.Code
	return fields
}
