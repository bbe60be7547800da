package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

func TestGenerateAndParseToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(7, "alice@pos.local", "Alice", "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice@pos.local", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
	assert.True(t, claims.IsAdmin())
	assert.NotEmpty(t, claims.ID, "每个Token都应有jti")
}

func TestTokensAreUnique(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	a, err := m.GenerateToken(1, "a@pos.local", "A", "employee")
	require.NoError(t, err)
	b, err := m.GenerateToken(1, "a@pos.local", "A", "employee")
	require.NoError(t, err)

	assert.NotEqual(t, a.AccessToken, b.AccessToken, "同一秒签发的Token也不应相同")
}

func TestParseToken_Errors(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	t.Run("签名错误", func(t *testing.T) {
		other := NewManager("other-secret", time.Hour, time.Hour)
		pair, err := other.GenerateToken(1, "a@pos.local", "A", "employee")
		require.NoError(t, err)

		_, err = m.ParseToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("已过期", func(t *testing.T) {
		expired := NewManager("test-secret", -time.Minute, time.Hour)
		pair, err := expired.GenerateToken(1, "a@pos.local", "A", "employee")
		require.NoError(t, err)

		_, err = m.ParseToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("格式错误", func(t *testing.T) {
		_, err := m.ParseToken("not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestRefreshAccessToken_KeepsRole(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(3, "boss@pos.local", "Boss", "admin")
	require.NoError(t, err)

	access, err := m.RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := m.ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}
