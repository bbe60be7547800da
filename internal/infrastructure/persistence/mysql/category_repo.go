package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/pos-inventory/internal/domain/category"
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	model := toCategoryModel(c)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return category.ErrDuplicateName
		}
		return apperrors.WrapPersistence(err, "创建分类失败")
	}
	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	var model CategoryModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.WrapPersistence(err, "查询分类失败")
	}
	return toCategoryEntity(&model), nil
}

func (r *categoryRepository) Update(ctx context.Context, c *category.Category) error {
	result := r.getDB(ctx).Model(&CategoryModel{ID: c.ID}).
		Select("name", "updated_at").
		Updates(toCategoryModel(c))
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return category.ErrDuplicateName
		}
		return apperrors.WrapPersistence(result.Error, "更新分类失败")
	}
	if result.RowsAffected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

// Delete 先把商品上的引用置空再删分类
// SQLite默认不校验外键,不能依赖ON DELETE SET NULL
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&ProductModel{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return apperrors.WrapPersistence(err, "清除商品分类失败")
		}

		result := tx.Delete(&CategoryModel{}, id)
		if result.Error != nil {
			return apperrors.WrapPersistence(result.Error, "删除分类失败")
		}
		if result.RowsAffected == 0 {
			return category.ErrCategoryNotFound
		}
		return nil
	})
}

func (r *categoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	if err := r.getDB(ctx).Order("name ASC").Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.WrapPersistence(err, "查询分类列表失败")
	}
	categories := make([]*category.Category, len(models))
	for i := range models {
		categories[i] = toCategoryEntity(&models[i])
	}
	return categories, nil
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.getDB(ctx).Model(&CategoryModel{}).Count(&n).Error; err != nil {
		return 0, apperrors.WrapPersistence(err, "统计分类失败")
	}
	return n, nil
}

func (r *categoryRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func toCategoryEntity(model *CategoryModel) *category.Category {
	return &category.Category{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toCategoryModel(c *category.Category) *CategoryModel {
	return &CategoryModel{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
