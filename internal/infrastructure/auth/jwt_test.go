package auth

import (
	"testing"
	"time"

	"github.com/rently/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-0123456789abcdef",
		RefreshSecret:          "test-refresh-secret-0123456789abcdef",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "rently-test",
		MaxRefreshCount:        2,
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: 42, Username: "alice", Role: "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	refreshClaims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), refreshClaims.UserID)
	assert.Equal(t, TokenTypeRefresh, refreshClaims.TokenType)
}

func TestValidateTokenTypeMismatch(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: 1, Username: "u", Role: "user"})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	require.Error(t, err)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	require.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	svc := newTestJWTService()
	_, err := svc.ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: 7, Username: "bob", Role: "user"})
	require.NoError(t, err)

	t.Run("refresh carries current role", func(t *testing.T) {
		newPair, err := svc.RefreshTokenPair(pair.RefreshToken, "bob", "admin")
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(newPair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("refresh count is limited", func(t *testing.T) {
		current := pair
		var err error
		for i := 0; i < 2; i++ {
			current, err = svc.RefreshTokenPair(current.RefreshToken, "bob", "user")
			require.NoError(t, err)
		}
		_, err = svc.RefreshTokenPair(current.RefreshToken, "bob", "user")
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})
}

func TestExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-0123456789abcdef",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "rently-test",
		MaxRefreshCount:        1,
	})

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: 1, Username: "u", Role: "user"})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
