// Package credentials stores and compares account passwords.
//
// Passwords are kept in plain text unless bcrypt hashing is configured.
// Plain storage matches existing snapshots and is a known weakness.
package credentials

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"task-calendar/internal/config"
	apperrors "task-calendar/internal/errors"
)

// Hasher turns a clear password into its stored form and checks a clear
// password against a stored value.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(stored, password string) bool
}

// PlainHasher stores passwords as given
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) {
	return password, nil
}

// Compare is an exact, case-sensitive comparison. An empty stored value
// never matches; legacy accounts recovered from orphaned tasks have one.
func (PlainHasher) Compare(stored, password string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// BcryptHasher stores bcrypt hashes. Stored values that are not bcrypt
// hashes are compared as plain text so accounts created before hashing was
// enabled can still log in.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	if len(password) > 72 {
		return "", apperrors.NewInvalidInputError("password", len(password), "must be at most 72 bytes when hashing is enabled")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (h BcryptHasher) Compare(stored, password string) bool {
	if !IsBcryptHash(stored) {
		return PlainHasher{}.Compare(stored, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// IsBcryptHash reports whether a stored value looks like a bcrypt hash
func IsBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2") && len(stored) == 60
}

// NewHasher returns the hasher selected by configuration
func NewHasher(cfg *config.Config) Hasher {
	if cfg != nil && cfg.Security.PasswordHashing == config.HashingBcrypt {
		return BcryptHasher{Cost: cfg.Security.BcryptCost}
	}
	return PlainHasher{}
}
