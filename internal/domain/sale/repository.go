package sale

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository 销售单仓储接口(销售台账)
// 设计说明:
// 1. 只负责持久化与查询,不包含业务规则
// 2. 与商品仓储共享同一事务边界(通过context传递事务)
type Repository interface {
	// Create 创建销售单(包含明细)
	Create(ctx context.Context, s *Sale) error

	// FindByID 根据ID查找销售单(包含明细)
	FindByID(ctx context.Context, id uint) (*Sale, error)

	// LockByID 悲观锁查询销售单(撤销时防止同一销售单被并发撤销两次)
	LockByID(ctx context.Context, id uint) (*Sale, error)

	// Delete 删除销售单及其明细
	Delete(ctx context.Context, id uint) error

	// List 分页查询销售单,UserID为0表示查询全部
	List(ctx context.Context, params ListParams) ([]*Sale, int64, error)

	// Summary 汇总统计(销售单数、总金额)
	Summary(ctx context.Context) (count int64, total decimal.Decimal, err error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int
	PageSize int
	UserID   uint      // 按经办人过滤(0表示全部)
	From     time.Time // 起始时间(零值表示不限)
	To       time.Time // 截止时间(零值表示不限)
}
