package authutils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Secreta123")
	require.NoError(t, err)
	require.NotEqual(t, "Secreta123", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, PasswordHashCost, cost)

	require.True(t, CheckPassword(hash, "Secreta123"))
	require.False(t, CheckPassword(hash, "secreta123"))
	require.False(t, CheckPassword("", "Secreta123"))
	require.False(t, CheckPassword("no-es-bcrypt", "Secreta123"))
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", PasswordMaxBytes+1))
	require.Error(t, err)
}
