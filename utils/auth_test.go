// utils/auth_test.go
package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("sekret123")
	require.NoError(t, err)
	assert.NotEqual(t, "sekret123", hash)

	assert.True(t, CheckPasswordHash("sekret123", hash))
	assert.False(t, CheckPasswordHash("gabim", hash))
}

func TestIsPrivileged(t *testing.T) {
	assert.True(t, IsPrivileged("admin"))
	assert.True(t, IsPrivileged("manager"))
	assert.False(t, IsPrivileged("user"))
	assert.False(t, IsPrivileged(""))
}

func TestDateHelpers(t *testing.T) {
	ts := time.Date(2024, time.May, 17, 13, 45, 12, 0, time.UTC)

	assert.Equal(t, time.Date(2024, time.May, 17, 0, 0, 0, 0, time.UTC), BeginningOfDay(ts))
	assert.Equal(t, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), BeginningOfMonth(ts))
	assert.Len(t, CurrentYear(), 4)
}
