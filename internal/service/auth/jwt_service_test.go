package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavitasoren02/TaskManager/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "thisisasecretkeythatis32charslong!!",
		TokenLifetimeMinutes: 7 * 24 * 60,
	}
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.GenerateToken(context.Background(), userID, "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.WithinDuration(t,
		time.Now().Add(7*24*time.Hour), claims.ExpiresAt, 5*time.Minute,
		"token should expire in about 7 days")
}

func TestValidateTokenRejectsMalformed(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), "not-a-jwt")
	assert.True(t, errors.Is(err, ErrInvalidToken), "expected ErrInvalidToken, got %v", err)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	other, err := NewJWTService(config.AuthConfig{
		JWTSecret:            "anothersecretkeythatisalso32chars!!!",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	token, err := other.GenerateToken(context.Background(), uuid.New(), "bob@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.True(t, errors.Is(err, ErrInvalidToken), "expected ErrInvalidToken, got %v", err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	impl := svc.(*hmacJWTService)

	// Issue a token far enough in the past that it is expired even after
	// the clock skew allowance.
	issued := time.Now().Add(-8 * 24 * time.Hour)
	impl.timeFunc = func() time.Time { return issued }
	token, err := impl.GenerateToken(context.Background(), uuid.New(), "carol@example.com")
	require.NoError(t, err)

	impl.timeFunc = time.Now
	_, err = impl.ValidateToken(context.Background(), token)
	assert.True(t, errors.Is(err, ErrExpiredToken), "expected ErrExpiredToken, got %v", err)
}

func TestBcryptVerifierRoundTrip(t *testing.T) {
	t.Parallel()

	v := NewBcryptVerifier()
	hashed, err := v.Hash("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hashed)

	assert.NoError(t, v.Compare(hashed, "secret1"))
	assert.Error(t, v.Compare(hashed, "wrong-password"))
}
