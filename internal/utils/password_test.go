package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, VerifyPassword(hash, "secret123"))
	assert.False(t, VerifyPassword(hash, "secret124"))
}

func TestHashPassword_OutOfRangeCostUsesDefault(t *testing.T) {
	hash, err := HashPassword("secret123", 0)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestHashPassword_LongPasswords(t *testing.T) {
	long := strings.Repeat("a", 100)
	hash, err := HashPassword(long, bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, long))

	// passwords sharing the first 72 bytes must still differ
	assert.False(t, VerifyPassword(hash, strings.Repeat("a", 72)+"b"))
}
