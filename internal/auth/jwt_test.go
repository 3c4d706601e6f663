package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute, time.Hour)

	token, err := m.GenerateToken(42, "jdoe", "worker")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.WorkerID)
	assert.Equal(t, "jdoe", claims.Login)
	assert.Equal(t, "worker", claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute, time.Hour)
	other := NewJWTManager("other-secret", time.Minute, time.Hour)

	token, err := m.GenerateToken(1, "jdoe", "worker")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute, time.Hour)

	token, err := m.GenerateToken(1, "jdoe", "worker")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateGarbageToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute, time.Hour)
	_, err := m.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute, time.Hour)

	token, err := m.GenerateRefreshToken(7, "jdoe")
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)

	id, err := WorkerIDFromRefreshClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}
