package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridepay/internal/models"
)

func TestGenerateAndParseTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-jwt-secret")

	access, refresh, err := GenerateTokens(&models.UserClaims{
		UserID:       7,
		Email:        "rider@test.local",
		Role:         "user",
		TokenVersion: 3,
	})
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	_, claims, err := ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "rider@test.local", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, "ridepay-api", claims.Issuer)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-jwt-secret")
	access, _, err := GenerateTokens(&models.UserClaims{UserID: 7})
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "another-secret")
	_, _, err = ParseToken(access)
	assert.Error(t, err)
}

func TestGenerateTokens_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, _, err := GenerateTokens(&models.UserClaims{UserID: 7})
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-jwt-secret")
	_, _, err := ParseToken("not-a-token")
	assert.Error(t, err)
}
