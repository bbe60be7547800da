package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/pos-inventory/internal/domain/product"
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

// productRepository 商品仓储实现(目录存储)
// 设计说明:
// 1. 实现domain/product/repository.go定义的接口
// 2. 所有方法都通过getDB(ctx)取DB,在TxManager.Transaction内调用时自动加入事务
// 3. 库存只通过UpdateStock原子修改,Update不写stock列
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepository{db: db}
}

// Create 创建商品
func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	model := toProductModel(p)

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "商品已存在")
		}
		return apperrors.WrapPersistence(err, "创建商品失败")
	}

	// 回填自增ID
	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找商品
func (r *productRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	err := r.getDB(ctx).Preload("Category").Preload("Provider").First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.WrapPersistence(err, "查询商品失败")
	}

	return toProductEntity(&model), nil
}

// Update 更新商品信息
// 只更新名称、描述、单价、分类、供应商,库存由UpdateStock维护
func (r *productRepository) Update(ctx context.Context, p *product.Product) error {
	model := toProductModel(p)

	result := r.getDB(ctx).Model(&ProductModel{ID: p.ID}).
		Select("name", "description", "unit_price", "category_id", "provider_id", "updated_at").
		Updates(model)

	if result.Error != nil {
		return apperrors.WrapPersistence(result.Error, "更新商品失败")
	}
	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}

	return nil
}

// Delete 删除商品(软删除)
// 历史销售单的明细保留商品ID与名称快照,撤销时仍可恢复库存
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&ProductModel{}, id)

	if result.Error != nil {
		return apperrors.WrapPersistence(result.Error, "删除商品失败")
	}

	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}

	return nil
}

// List 分页查询商品列表
func (r *productRepository) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	var models []ProductModel
	var total int64

	query := r.getDB(ctx).Model(&ProductModel{})

	// 关键词搜索(名称、描述)
	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", keyword, keyword)
	}
	if params.CategoryID != 0 {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.ProviderID != 0 {
		query = query.Where("provider_id = ?", params.ProviderID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapPersistence(err, "查询商品总数失败")
	}

	switch params.SortBy {
	case "price_asc":
		query = query.Order("unit_price ASC")
	case "price_desc":
		query = query.Order("unit_price DESC")
	case "stock_asc":
		query = query.Order("stock ASC")
	case "name_asc":
		query = query.Order("name ASC")
	default:
		query = query.Order("created_at DESC").Order("id DESC")
	}

	query = query.Preload("Category").Preload("Provider")
	if err := query.Scopes(paginate(params.Page, params.PageSize)).Find(&models).Error; err != nil {
		return nil, 0, apperrors.WrapPersistence(err, "查询商品列表失败")
	}

	products := make([]*product.Product, len(models))
	for i := range models {
		products[i] = toProductEntity(&models[i])
	}

	return products, total, nil
}

// LockByID 悲观锁查询商品
// SELECT ... FOR UPDATE锁定行直到事务结束;必须在事务内调用,否则锁立即释放
// SQLite不支持FOR UPDATE,GORM会忽略该子句,此时靠单连接串行化事务
func (r *productRepository) LockByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	err := r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.WrapPersistence(err, "锁定商品失败")
	}

	return toProductEntity(&model), nil
}

// UpdateStock 更新库存(原子操作)
// UPDATE products SET stock = stock + delta WHERE id = ? AND stock + delta >= 0
// 使用Unscoped:撤销销售时,已下架商品的库存也要恢复
func (r *productRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	db := r.getDB(ctx)
	result := db.Unscoped().Model(&ProductModel{}).
		Where("id = ?", id).
		Where("stock + ? >= 0", delta). // 防止库存为负
		Update("stock", gorm.Expr("stock + ?", delta))

	if result.Error != nil {
		return apperrors.WrapPersistence(result.Error, "更新库存失败")
	}

	if result.RowsAffected == 0 {
		// 商品不存在,或者库存不足,再查一次确定原因
		var model ProductModel
		if err := db.Unscoped().First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return product.ErrProductNotFound
			}
			return apperrors.WrapPersistence(err, "查询商品失败")
		}
		return product.InsufficientStock(toProductEntity(&model), -delta)
	}

	return nil
}

// Summary 商品数与库存总量(报表统计)
func (r *productRepository) Summary(ctx context.Context) (count int64, totalStock int64, err error) {
	var row struct {
		Count      int64
		TotalStock int64
	}
	err = r.getDB(ctx).Model(&ProductModel{}).
		Select("COUNT(*) AS count, COALESCE(SUM(stock), 0) AS total_stock").
		Scan(&row).Error
	if err != nil {
		return 0, 0, apperrors.WrapPersistence(err, "统计商品失败")
	}
	return row.Count, row.TotalStock, nil
}

func (r *productRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// toProductEntity GORM模型 → 领域实体
// 未Preload关联时名称留空
func toProductEntity(model *ProductModel) *product.Product {
	p := &product.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		UnitPrice:   model.UnitPrice,
		Stock:       model.Stock,
		CategoryID:  model.CategoryID,
		ProviderID:  model.ProviderID,
		CreatedBy:   model.CreatedBy,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	if model.Category != nil {
		p.CategoryName = model.Category.Name
	}
	if model.Provider != nil {
		p.ProviderName = model.Provider.Name
	}
	return p
}

// toProductModel 领域实体 → GORM模型
func toProductModel(p *product.Product) *ProductModel {
	return &ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		ProviderID:  p.ProviderID,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
