package validation

import (
	"strings"

	"task-calendar/internal/config"
	apperrors "task-calendar/internal/errors"
)

// AccountValidator checks signup input
type AccountValidator struct {
	validator *Validator
}

// NewAccountValidator creates a new account validator
func NewAccountValidator() *AccountValidator {
	return &AccountValidator{validator: NewValidator()}
}

// NewAccountValidatorWithConfig creates an account validator using the
// configured password policy
func NewAccountValidatorWithConfig(cfg *config.Config) *AccountValidator {
	return &AccountValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateSignup returns ErrInvalidEmail or ErrWeakPassword, checked in that
// order, or nil. The email is trimmed first; the password is not.
func (av *AccountValidator) ValidateSignup(email, password string) error {
	email = strings.TrimSpace(email)
	if !av.validator.IsValidEmail(email) {
		return apperrors.NewAuthError(apperrors.ErrInvalidEmail, email)
	}
	if !av.validator.IsValidPassword(password) {
		return apperrors.NewAuthError(apperrors.ErrWeakPassword, email)
	}
	return nil
}
