package auth_test

import (
	"testing"
	"time"
	"waveBackend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	m := auth.NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	m1 := auth.NewJWTManager("secret-one", time.Hour)
	m2 := auth.NewJWTManager("secret-two", time.Hour)

	token, err := m1.Generate(7)
	require.NoError(t, err)

	_, err = m2.Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTManager_Expired(t *testing.T) {
	m := auth.NewJWTManager("test-secret", -time.Minute)

	token, err := m.Generate(7)
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestJWTManager_Garbage(t *testing.T) {
	m := auth.NewJWTManager("test-secret", time.Hour)

	_, err := m.Validate("definitely.not.a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, auth.CheckPassword(hash, "s3cret"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
}
