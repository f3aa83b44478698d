package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krodas7/constructora-backend/internal/infrastructure/config"
)

func testService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-at-least-32-characters",
		Expiration: expiration,
		Issuer:     "constructora-backend",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := testService(time.Hour)
	userID := uuid.New()

	token, err := svc.Generate(userID, "admin", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token.Value)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := svc.Validate(token.Value)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWTService_ValidateExpired(t *testing.T) {
	svc := testService(-time.Minute)

	token, err := svc.Generate(uuid.New(), "admin", "admin")
	require.NoError(t, err)

	_, err = svc.Validate(token.Value)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ValidateWrongSecret(t *testing.T) {
	token, err := testService(time.Hour).Generate(uuid.New(), "admin", "admin")
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:     "a-completely-different-secret-value",
		Expiration: time.Hour,
		Issuer:     "constructora-backend",
	})
	_, err = other.Validate(token.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateGarbage(t *testing.T) {
	_, err := testService(time.Hour).Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
