package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Rule names the check a field failed.
type Rule string

const (
	RuleRequired Rule = "required"
	RuleFormat   Rule = "invalid_format"
	RuleLength   Rule = "invalid_length"
	RuleValue    Rule = "invalid_value"
	RuleRange    Rule = "invalid_range"
	RuleTooMany  Rule = "too_many"
)

// Task and account field names as reported to callers.
const (
	FieldName      = "name"
	FieldEndDate   = "end_date"
	FieldStatus    = "status"
	FieldPriority  = "priority"
	FieldProgress  = "progress"
	FieldAssignees = "assignees"
	FieldEmail     = "email"
	FieldPassword  = "password"
)

type FieldError struct {
	Field   string
	Type    Rule
	Message string
	Value   any
}

func (fe *FieldError) Error() string {
	return fe.Field + ": " + fe.Message
}

// ValidationError collects every field problem found in one pass so the
// caller can report them together.
type ValidationError struct {
	Errors []FieldError
}

func NewValidationError() *ValidationError {
	return &ValidationError{Errors: []FieldError{}}
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation error"
	case 1:
		return ve.Errors[0].Error()
	}
	parts := make([]string, len(ve.Errors))
	for i := range ve.Errors {
		parts[i] = ve.Errors[i].Error()
	}
	return fmt.Sprintf("%d invalid fields: %s", len(parts), strings.Join(parts, "; "))
}

func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

func (ve *ValidationError) add(field string, rule Rule, value any, format string, args ...any) {
	ve.Errors = append(ve.Errors, FieldError{
		Field:   field,
		Type:    rule,
		Message: fmt.Sprintf(format, args...),
		Value:   value,
	})
}

func (ve *ValidationError) Required(field string) {
	ve.add(field, RuleRequired, nil, "%s is required", field)
}

func (ve *ValidationError) BadFormat(field string, value any, expected string) {
	ve.add(field, RuleFormat, value, "%s has invalid format, expected: %s", field, expected)
}

// TooLong reports a string longer than max characters.
func (ve *ValidationError) TooLong(field string, value any, max int) {
	ve.add(field, RuleLength, value, "%s must be at most %d characters long", field, max)
}

func (ve *ValidationError) NotAllowed(field string, value any, reason string) {
	ve.add(field, RuleValue, value, "%s has invalid value: %s", field, reason)
}

func (ve *ValidationError) OutOfRange(field string, value any, reason string) {
	ve.add(field, RuleRange, value, "%s has invalid range: %s", field, reason)
}

func (ve *ValidationError) TooMany(field string, value any, count, max int) {
	ve.add(field, RuleTooMany, value, "%s has %d entries, at most %d allowed", field, count, max)
}

// Fields lists each failing field once, first failure first.
func (ve *ValidationError) Fields() []string {
	var fields []string
	for _, fe := range ve.Errors {
		if !containsField(fields, fe.Field) {
			fields = append(fields, fe.Field)
		}
	}
	return fields
}

func containsField(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}

// For returns the problems recorded against one field.
func (ve *ValidationError) For(field string) []FieldError {
	var out []FieldError
	for _, fe := range ve.Errors {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// GetUserFriendlyMessage is the terminal rendering: a lone message as is,
// several as a bulleted list.
func (ve *ValidationError) GetUserFriendlyMessage() string {
	if len(ve.Errors) == 0 {
		return "Input validation failed"
	}
	if len(ve.Errors) == 1 {
		return ve.Errors[0].Message
	}
	var b strings.Builder
	b.WriteString("Multiple validation errors occurred:")
	for _, fe := range ve.Errors {
		b.WriteString("\n- ")
		b.WriteString(fe.Message)
	}
	return b.String()
}

func IsValidationError(err error) bool {
	_, ok := AsValidationError(err)
	return ok
}

// AsValidationError finds the ValidationError anywhere in err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
