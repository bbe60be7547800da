package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/pos-inventory/internal/domain/provider"
	"github.com/xiebiao/pos-inventory/pkg/logger"
)

// ProviderResult 供应商响应DTO
type ProviderResult struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toProviderResult(p *provider.Provider) *ProviderResult {
	return &ProviderResult{
		ID:        p.ID,
		Name:      p.Name,
		Phone:     p.Phone,
		Email:     p.Email,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateProviderRequest 新增供应商
type CreateProviderRequest struct {
	Name  string
	Phone string
	Email string
}

// UpdateProviderRequest nil字段不修改,Phone/Email指向空串表示清空
type UpdateProviderRequest struct {
	ID    uint
	Name  *string
	Phone *string
	Email *string
}

// ProviderUseCase 供应商管理(管理员)
type ProviderUseCase struct {
	repo  provider.Repository
	stats StatsInvalidator
}

func NewProviderUseCase(repo provider.Repository, stats StatsInvalidator) *ProviderUseCase {
	return &ProviderUseCase{repo: repo, stats: stats}
}

func (uc *ProviderUseCase) Create(ctx context.Context, req CreateProviderRequest) (*ProviderResult, error) {
	p, err := provider.NewProvider(req.Name, req.Phone, req.Email)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("provider created", zap.Uint("provider_id", p.ID), zap.String("name", p.Name))
	uc.stats.InvalidateStatistics(ctx, "provider.created")
	return toProviderResult(p), nil
}

func (uc *ProviderUseCase) Get(ctx context.Context, id uint) (*ProviderResult, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProviderResult(p), nil
}

func (uc *ProviderUseCase) List(ctx context.Context) ([]*ProviderResult, error) {
	providers, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]*ProviderResult, len(providers))
	for i, p := range providers {
		results[i] = toProviderResult(p)
	}
	return results, nil
}

func (uc *ProviderUseCase) Update(ctx context.Context, req UpdateProviderRequest) (*ProviderResult, error) {
	p, err := uc.repo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if err := p.Update(req.Name, req.Phone, req.Email); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("provider updated", zap.Uint("provider_id", p.ID))
	return toProviderResult(p), nil
}

// Delete 删除供应商,引用它的商品供应商置空
func (uc *ProviderUseCase) Delete(ctx context.Context, id uint) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("provider deleted", zap.Uint("provider_id", id))
	uc.stats.InvalidateStatistics(ctx, "provider.deleted")
	return nil
}
