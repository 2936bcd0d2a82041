package security_test

import (
	"testing"

	"delivery-web-server/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("StrongPass123!")

	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "StrongPass123!", hash)

	assert.True(t, security.CheckPassword("StrongPass123!", hash))
	assert.False(t, security.CheckPassword("WrongPass123!", hash))
}

func TestHashPassword_SaltedHashesDiffer(t *testing.T) {
	first, err := security.HashPassword("StrongPass123!")
	require.NoError(t, err)

	second, err := security.HashPassword("StrongPass123!")
	require.NoError(t, err)

	// соль делает каждый хэш уникальным
	assert.NotEqual(t, first, second)
}

func TestCheckPassword_BadHash(t *testing.T) {
	assert.False(t, security.CheckPassword("StrongPass123!", "не-bcrypt-хэш"))
}
