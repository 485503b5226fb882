package credentials

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"task-calendar/internal/config"
	apperrors "task-calendar/internal/errors"
)

func TestPlainHasher(t *testing.T) {
	hasher := PlainHasher{}

	stored, err := hasher.Hash("secret123")
	require.NoError(t, err)
	assert.Equal(t, "secret123", stored)

	assert.True(t, hasher.Compare(stored, "secret123"))
	assert.False(t, hasher.Compare(stored, "Secret123"))
	assert.False(t, hasher.Compare(stored, "secret1234"))
	assert.False(t, hasher.Compare(stored, ""))
	assert.False(t, hasher.Compare("", ""), "accounts without a stored password cannot log in")
}

func TestBcryptHasher(t *testing.T) {
	hasher := BcryptHasher{Cost: bcrypt.MinCost}

	stored, err := hasher.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored)
	assert.True(t, IsBcryptHash(stored))

	assert.True(t, hasher.Compare(stored, "secret123"))
	assert.False(t, hasher.Compare(stored, "secret124"))
}

func TestBcryptHasher_AcceptsPlainStoredValues(t *testing.T) {
	hasher := BcryptHasher{Cost: bcrypt.MinCost}

	assert.True(t, hasher.Compare("secret123", "secret123"))
	assert.False(t, hasher.Compare("secret123", "other1234"))
}

func TestBcryptHasher_RejectsLongPasswords(t *testing.T) {
	hasher := BcryptHasher{Cost: bcrypt.MinCost}

	_, err := hasher.Hash(strings.Repeat("a1", 40))

	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
}

func TestNewHasher(t *testing.T) {
	assert.IsType(t, PlainHasher{}, NewHasher(nil))
	assert.IsType(t, PlainHasher{}, NewHasher(config.NewConfig()))

	cfg := config.NewConfig()
	cfg.Security.PasswordHashing = config.HashingBcrypt
	cfg.Security.BcryptCost = 6
	hasher := NewHasher(cfg)

	require.IsType(t, BcryptHasher{}, hasher)
	assert.Equal(t, 6, hasher.(BcryptHasher).Cost)
}
