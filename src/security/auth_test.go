package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/financeflow/backend/src/config"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	config.Cfg = &config.AppConfig{
		JWTSecret:          "test-secret-that-is-long-enough-0123456789",
		AccessTokenExpiry:  time.Minute,
		RefreshTokenExpiry: time.Hour,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(config.Cfg.JWTSecret)

	token, err := svc.GenerateToken("42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", subject)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := NewAuthService(config.Cfg.JWTSecret)
	other := NewAuthService("a-completely-different-secret-0123456789")

	token, err := svc.GenerateToken("42")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(config.Cfg.JWTSecret)

	_, err := svc.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateRefreshTokenIsRandom(t *testing.T) {
	svc := NewAuthService(config.Cfg.JWTSecret)

	a, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	b, err := svc.GenerateRefreshToken()
	require.NoError(t, err)

	assert.Len(t, a, 64) // 32 bytes em hex
	assert.NotEqual(t, a, b)
}

func TestHashPassword(t *testing.T) {
	svc := NewAuthService(config.Cfg.JWTSecret)

	hash, err := svc.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct horse battery staple")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")))
}
