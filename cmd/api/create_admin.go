package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/pos-inventory/internal/domain/user"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/config"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/persistence/mysql"
)

// createAdmin 创建管理员账号(-create-admin),完成后进程退出
// 邮箱已存在时返回ErrEmailDuplicate,不修改已有账号;统计缓存不在此处失效,等待stats_ttl过期
func createAdmin(ctx context.Context, cfg *config.Config, log *zap.Logger, name, email, password string) (*user.User, error) {
	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	svc := user.NewService(mysql.NewUserRepository(db))
	u, err := svc.CreateUser(ctx, email, password, name, user.RoleAdmin)
	if err != nil {
		return nil, err
	}

	log.Info("管理员已创建", zap.Uint("user_id", u.ID), zap.String("email", u.Email))
	return u, nil
}
