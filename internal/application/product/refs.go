package product

import (
	"context"

	"github.com/xiebiao/pos-inventory/internal/domain/category"
	"github.com/xiebiao/pos-inventory/internal/domain/provider"
)

// StatsInvalidator 统计缓存失效
// 商品数、库存总量变化后调用,由report.CacheInvalidator实现
type StatsInvalidator interface {
	InvalidateStatistics(ctx context.Context, reason string)
}

// CatalogRefs 校验商品引用的分类、供应商存在
// nil或0表示不引用,跳过校验
type CatalogRefs struct {
	categories category.Repository
	providers  provider.Repository
}

func NewCatalogRefs(categories category.Repository, providers provider.Repository) *CatalogRefs {
	return &CatalogRefs{categories: categories, providers: providers}
}

func (r *CatalogRefs) check(ctx context.Context, categoryID, providerID *uint) error {
	if categoryID != nil && *categoryID != 0 {
		if _, err := r.categories.FindByID(ctx, *categoryID); err != nil {
			return err
		}
	}
	if providerID != nil && *providerID != 0 {
		if _, err := r.providers.FindByID(ctx, *providerID); err != nil {
			return err
		}
	}
	return nil
}
