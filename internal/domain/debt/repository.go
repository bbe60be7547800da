package debt

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository 欠款仓储接口
type Repository interface {
	Create(ctx context.Context, d *Debt) error
	FindByID(ctx context.Context, id uint) (*Debt, error)
	Update(ctx context.Context, d *Debt) error
	Delete(ctx context.Context, id uint) error

	// List 分页查询,UserID为0表示查询全部
	List(ctx context.Context, params ListParams) ([]*Debt, int64, error)

	// Summary 汇总统计(记录数、未还清金额)
	Summary(ctx context.Context) (count int64, outstanding decimal.Decimal, err error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int
	PageSize int
	UserID   uint
}
