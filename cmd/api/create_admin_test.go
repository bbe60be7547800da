package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xiebiao/pos-inventory/internal/domain/user"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/config"
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(t.TempDir(), "pos.db"),
			TxTimeout:  time.Second,
		},
	}
	log := zaptest.NewLogger(t)

	t.Run("创建管理员", func(t *testing.T) {
		u, err := createAdmin(ctx, cfg, log, "老板", "boss@shop.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, user.RoleAdmin, u.Role)
		t.Logf("✓ 管理员已创建: id=%d", u.ID)
	})

	t.Run("邮箱已存在", func(t *testing.T) {
		_, err := createAdmin(ctx, cfg, log, "老板", "boss@shop.com", "password123")
		assert.True(t, errors.Is(err, apperrors.ErrEmailDuplicate))
	})

	t.Run("密码强度不足", func(t *testing.T) {
		_, err := createAdmin(ctx, cfg, log, "店长", "manager@shop.com", "123")
		assert.True(t, errors.Is(err, apperrors.ErrWeakPassword))
	})
}
