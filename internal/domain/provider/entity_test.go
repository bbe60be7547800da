package provider

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("电话与邮箱可为空", func(t *testing.T) {
		p, err := NewProvider(" 华润 ", "", "")
		require.NoError(t, err)
		assert.Equal(t, "华润", p.Name)
		assert.Empty(t, p.Email)
	})

	t.Run("字段校验", func(t *testing.T) {
		_, err := NewProvider("", "", "")
		assert.ErrorIs(t, err, ErrInvalidName)

		_, err = NewProvider("华润", strings.Repeat("1", maxPhoneLength+1), "")
		assert.ErrorIs(t, err, ErrInvalidPhone)

		_, err = NewProvider("华润", "", "not-an-email")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})
}

func TestProviderUpdate(t *testing.T) {
	p, err := NewProvider("华润", "021-1234", "sales@example.com")
	require.NoError(t, err)

	bad := "bad"
	assert.ErrorIs(t, p.Update(nil, nil, &bad), ErrInvalidEmail)
	assert.Equal(t, "sales@example.com", p.Email, "失败时不修改")

	name, empty := "华润万家", ""
	require.NoError(t, p.Update(&name, nil, &empty))
	assert.Equal(t, "华润万家", p.Name)
	assert.Equal(t, "021-1234", p.Phone, "nil不修改")
	assert.Empty(t, p.Email, "空串清空邮箱")
	t.Logf("✓ 供应商更新: %+v", p)
}
