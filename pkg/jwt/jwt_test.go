package jwt

import (
	"testing"
	"time"

	"kinhealth/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(secret string) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        secret,
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})
}

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := newTestService("s3cret")
	userID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(userID, "ayesha@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateTokenOfType(token, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, tokenID, claims.TokenID)
	assert.Equal(t, "ayesha@example.com", claims.Email)
}

func TestRefreshToken_RejectedAsAccess(t *testing.T) {
	svc := newTestService("s3cret")

	token, _, err := svc.GenerateRefreshToken(uuid.New(), "ayesha@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateTokenOfType(token, AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, _, err := newTestService("one").GenerateAccessToken(uuid.New(), "a@b.c")
	require.NoError(t, err)

	_, err = newTestService("two").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s3cret", AccessExpiry: -time.Minute})

	token, _, err := svc.GenerateAccessToken(uuid.New(), "a@b.c")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
