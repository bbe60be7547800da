package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/pos-inventory/internal/domain/category"
	"github.com/xiebiao/pos-inventory/pkg/logger"
)

// StatsInvalidator 统计缓存失效,由report.CacheInvalidator实现
type StatsInvalidator interface {
	InvalidateStatistics(ctx context.Context, reason string)
}

// CategoryResult 分类响应DTO
type CategoryResult struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toCategoryResult(c *category.Category) *CategoryResult {
	return &CategoryResult{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

// CategoryUseCase 商品分类管理(管理员)
type CategoryUseCase struct {
	repo  category.Repository
	stats StatsInvalidator
}

func NewCategoryUseCase(repo category.Repository, stats StatsInvalidator) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, stats: stats}
}

// Create 新增分类,名称唯一
func (uc *CategoryUseCase) Create(ctx context.Context, name string) (*CategoryResult, error) {
	c, err := category.NewCategory(name)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("category created", zap.Uint("category_id", c.ID), zap.String("name", c.Name))
	uc.stats.InvalidateStatistics(ctx, "category.created")
	return toCategoryResult(c), nil
}

func (uc *CategoryUseCase) Get(ctx context.Context, id uint) (*CategoryResult, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResult(c), nil
}

// List 全部分类(数量有限,不分页)
func (uc *CategoryUseCase) List(ctx context.Context) ([]*CategoryResult, error) {
	categories, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]*CategoryResult, len(categories))
	for i, c := range categories {
		results[i] = toCategoryResult(c)
	}
	return results, nil
}

func (uc *CategoryUseCase) Update(ctx context.Context, id uint, name string) (*CategoryResult, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Rename(name); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("category updated", zap.Uint("category_id", c.ID), zap.String("name", c.Name))
	return toCategoryResult(c), nil
}

// Delete 删除分类,引用它的商品变为未分类
func (uc *CategoryUseCase) Delete(ctx context.Context, id uint) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("category deleted", zap.Uint("category_id", id))
	uc.stats.InvalidateStatistics(ctx, "category.deleted")
	return nil
}
