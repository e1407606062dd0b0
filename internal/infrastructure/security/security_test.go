package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager(t *testing.T) {
	m := NewTokenManager("access-secret", "refresh-secret")

	access, refresh, err := m.Generate("account-1")
	require.NoError(t, err)

	sub, err := m.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "account-1", sub)

	sub, err = m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "account-1", sub)

	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err, "refresh token must not pass as access token")

	_, err = NewTokenManager("other", "other").ValidateAccessToken(access)
	assert.Error(t, err)

	_, err = m.ValidateAccessToken("garbage")
	assert.Error(t, err)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	m := NewTokenManager("a", "r")
	_, first, err := m.Generate("account-1")
	require.NoError(t, err)
	_, second, err := m.Generate("account-1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestPasswordHasher(t *testing.T) {
	h := &PasswordHasher{cost: 4}
	hash, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NoError(t, h.Compare(hash, "secret1"))
	assert.Error(t, h.Compare(hash, "secret2"))
}
