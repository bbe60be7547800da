package provider

import (
	"context"
)

// Repository 供应商仓储接口
type Repository interface {
	// Create 邮箱重复时返回ErrDuplicateEmail
	Create(ctx context.Context, p *Provider) error
	FindByID(ctx context.Context, id uint) (*Provider, error)
	Update(ctx context.Context, p *Provider) error

	// Delete 删除供应商,并把引用它的商品(含已下架)的供应商置空
	Delete(ctx context.Context, id uint) error

	// List 全部供应商,按名称排序
	List(ctx context.Context) ([]*Provider, error)

	Count(ctx context.Context) (int64, error)
}
