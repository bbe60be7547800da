package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/pos-inventory/internal/infrastructure/config"
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

// txKey context中事务DB的键
type txKey struct{}

// TxManager 事务管理器
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 每个事务受tx_timeout约束,超时自动回滚并报告为存储错误
type TxManager struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB, cfg *config.Config) *TxManager {
	return &TxManager{db: db, timeout: cfg.Database.TxTimeout}
}

// Transaction 执行事务
// fn内的所有Repository操作都在同一事务中执行:
// fn返回error时ROLLBACK,返回nil时COMMIT
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    p, err := productRepo.LockByID(ctx, productID)
//	    if err != nil {
//	        return err
//	    }
//	    if err := productRepo.UpdateStock(ctx, p.ID, -quantity); err != nil {
//	        return err // 自动回滚
//	    }
//	    return saleRepo.Create(ctx, s) // nil则提交,非nil则回滚
//	})
//
// 返回的错误:fn返回的业务错误原样返回;超时、提交失败等其它错误包装为PersistenceError
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Repository的getDB方法会从context提取事务DB
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return apperrors.WrapPersistence(ctxErr, "事务超时")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.WrapPersistence(err, "事务执行失败")
}

// dbFromContext 从context获取事务DB,如果没有则使用默认DB
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
