package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"task-calendar/internal/config"
	"task-calendar/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9._-]+\.[A-Za-z0-9_-]+$`)

// Validator holds the field checks shared by the task and account validators.
type Validator struct {
	config *config.Config
}

// NewValidator uses the built-in limits.
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
	}
}

func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
	}
}

// IsValidEmail checks the local@domain.tld shape. The last dot separates the
// domain from the TLD.
func (v *Validator) IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPassword checks the minimum length and that the password holds at
// least one letter and one digit.
func (v *Validator) IsValidPassword(password string) bool {
	if utf8.RuneCountInString(password) < v.getPasswordMinLength() {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidTaskNameLength checks the trimmed name against the configured
// maximum. A maximum of zero allows any length.
func (v *Validator) IsValidTaskNameLength(name string) bool {
	limit := v.getTaskNameMaxLength()
	return limit <= 0 || utf8.RuneCountInString(strings.TrimSpace(name)) <= limit
}

// IsValidDate checks a YYYY-MM-DD calendar date
func (v *Validator) IsValidDate(s string) bool {
	_, err := domain.ParseDate(s)
	return err == nil
}

// ParseInt parses a whole number, ignoring surrounding whitespace
func (v *Validator) ParseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}

// IsValidProgress checks the [0,100] progress range
func (v *Validator) IsValidProgress(progress int) bool {
	return progress >= 0 && progress <= domain.MaxProgress
}

func (v *Validator) getPasswordMinLength() int {
	if v.config != nil {
		return v.config.Validation.PasswordMinLength
	}
	return 8
}

func (v *Validator) getTaskNameMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TaskNameMaxLength
	}
	return 0
}

func (v *Validator) getMaxAssignees() int {
	if v.config != nil {
		return v.config.Validation.MaxAssignees
	}
	return 5
}

var defaultValidator = NewValidator()

// ValidateEmail reports whether email has the local@domain.tld shape
func ValidateEmail(email string) bool {
	return defaultValidator.IsValidEmail(email)
}

// ValidatePassword reports whether password meets the default policy
func ValidatePassword(password string) bool {
	return defaultValidator.IsValidPassword(password)
}
