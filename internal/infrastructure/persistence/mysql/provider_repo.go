package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/pos-inventory/internal/domain/provider"
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

type providerRepository struct {
	db *gorm.DB
}

// NewProviderRepository 创建供应商仓储
func NewProviderRepository(db *gorm.DB) provider.Repository {
	return &providerRepository{db: db}
}

func (r *providerRepository) Create(ctx context.Context, p *provider.Provider) error {
	model := toProviderModel(p)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return provider.ErrDuplicateEmail
		}
		return apperrors.WrapPersistence(err, "创建供应商失败")
	}
	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *providerRepository) FindByID(ctx context.Context, id uint) (*provider.Provider, error) {
	var model ProviderModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, provider.ErrProviderNotFound
		}
		return nil, apperrors.WrapPersistence(err, "查询供应商失败")
	}
	return toProviderEntity(&model), nil
}

func (r *providerRepository) Update(ctx context.Context, p *provider.Provider) error {
	result := r.getDB(ctx).Model(&ProviderModel{ID: p.ID}).
		Select("name", "phone", "email", "updated_at").
		Updates(toProviderModel(p))
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return provider.ErrDuplicateEmail
		}
		return apperrors.WrapPersistence(result.Error, "更新供应商失败")
	}
	if result.RowsAffected == 0 {
		return provider.ErrProviderNotFound
	}
	return nil
}

// Delete 先把商品上的引用置空再删供应商
func (r *providerRepository) Delete(ctx context.Context, id uint) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&ProductModel{}).
			Where("provider_id = ?", id).
			Update("provider_id", nil).Error; err != nil {
			return apperrors.WrapPersistence(err, "清除商品供应商失败")
		}

		result := tx.Delete(&ProviderModel{}, id)
		if result.Error != nil {
			return apperrors.WrapPersistence(result.Error, "删除供应商失败")
		}
		if result.RowsAffected == 0 {
			return provider.ErrProviderNotFound
		}
		return nil
	})
}

func (r *providerRepository) List(ctx context.Context) ([]*provider.Provider, error) {
	var models []ProviderModel
	if err := r.getDB(ctx).Order("name ASC").Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.WrapPersistence(err, "查询供应商列表失败")
	}
	providers := make([]*provider.Provider, len(models))
	for i := range models {
		providers[i] = toProviderEntity(&models[i])
	}
	return providers, nil
}

func (r *providerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.getDB(ctx).Model(&ProviderModel{}).Count(&n).Error; err != nil {
		return 0, apperrors.WrapPersistence(err, "统计供应商失败")
	}
	return n, nil
}

func (r *providerRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func toProviderEntity(model *ProviderModel) *provider.Provider {
	p := &provider.Provider{
		ID:        model.ID,
		Name:      model.Name,
		Phone:     model.Phone,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if model.Email != nil {
		p.Email = *model.Email
	}
	return p
}

// toProviderModel 空邮箱存为NULL
func toProviderModel(p *provider.Provider) *ProviderModel {
	model := &ProviderModel{
		ID:        p.ID,
		Name:      p.Name,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Email != "" {
		email := p.Email
		model.Email = &email
	}
	return model
}
