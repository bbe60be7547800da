package category

import (
	"context"
)

// Repository 分类仓储接口
type Repository interface {
	// Create 名称重复时返回ErrDuplicateName
	Create(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id uint) (*Category, error)
	Update(ctx context.Context, c *Category) error

	// Delete 删除分类,并把引用它的商品(含已下架)的分类置空
	Delete(ctx context.Context, id uint) error

	// List 全部分类,按名称排序
	List(ctx context.Context) ([]*Category, error)

	Count(ctx context.Context) (int64, error)
}
