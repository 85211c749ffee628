package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Blue Widget", "blue-widget"},
		{"  Spaced  Out  ", "spaced-out"},
		{"Ünïcode & Symbols!", "ncode-symbols"},
		{"already-slugged", "already-slugged"},
		{"UPPER CASE", "upper-case"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
}

func TestShortRef(t *testing.T) {
	ref := ShortRef()
	assert.Len(t, ref, 8)
	assert.NotEqual(t, ref, ShortRef())
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cretpass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", hash)

	assert.True(t, CheckPasswordHash("s3cretpass", hash))
	assert.False(t, CheckPasswordHash("wrongpass", hash))
}

func TestJWTManagerRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	t.Run("access token", func(t *testing.T) {
		token, err := manager.GenerateAccessToken(userID, "jordan@example.com", "Jordan Doe")
		require.NoError(t, err)

		claims, err := manager.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "jordan@example.com", claims.Email)
		assert.Equal(t, "Jordan Doe", claims.Name)
	})

	t.Run("refresh token", func(t *testing.T) {
		token, err := manager.GenerateRefreshToken(userID)
		require.NoError(t, err)

		got, err := manager.ValidateRefreshToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		other := NewJWTManager("other-secret", time.Hour, 24*time.Hour)
		token, err := other.GenerateAccessToken(userID, "jordan@example.com", "Jordan Doe")
		require.NoError(t, err)

		_, err = manager.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := NewJWTManager("test-secret", -time.Hour, 24*time.Hour)
		token, err := expired.GenerateAccessToken(userID, "jordan@example.com", "Jordan Doe")
		require.NoError(t, err)

		_, err = manager.ValidateAccessToken(token)
		assert.Error(t, err)
	})
}
