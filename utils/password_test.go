package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct-horse", hash)
	assert.True(t, CheckPassword(hash, "correct-horse"))
	assert.False(t, CheckPassword(hash, "wrong-horse"))
}

func TestValidNewPassword(t *testing.T) {
	assert.False(t, ValidNewPassword(""))
	assert.False(t, ValidNewPassword("short"))
	assert.True(t, ValidNewPassword("12345678"))
}
