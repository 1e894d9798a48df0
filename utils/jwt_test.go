package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken(secret, "user-1", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 2*time.Second)
}

func TestParseTokenRejects(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(secret, "user-1", "user", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken([]byte("other-secret"), token)
	assert.Error(t, err, "wrong secret")

	expired, err := GenerateToken(secret, "user-1", "user", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, expired)
	assert.Error(t, err, "expired")

	_, err = ParseToken(secret, "not-a-jwt")
	assert.Error(t, err)

	_, err = GenerateToken(nil, "user-1", "user", time.Hour)
	assert.Error(t, err)
}

func TestHashTokenStable(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}

func TestTransactionIDs(t *testing.T) {
	id := NewTransactionID()
	assert.Len(t, id, 27)
	assert.True(t, ValidTransactionID(id))
	assert.NotEqual(t, id, NewTransactionID())

	assert.True(t, ValidTransactionID("TXN_1700000000_ab"))
	assert.False(t, ValidTransactionID("short"))
	assert.False(t, ValidTransactionID("has space in it"))
	assert.False(t, ValidTransactionID("drop'); --xxxxxxx"))
}
