package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!", 4) // min cost keeps the test fast
	require.NoError(t, err)
	require.NotEqual(t, "s3cret!", hash)

	require.True(t, VerifyPassword(hash, "s3cret!"))
	require.False(t, VerifyPassword(hash, "wrong"))
	require.False(t, VerifyPassword("not-a-bcrypt-hash", "s3cret!"))
}
