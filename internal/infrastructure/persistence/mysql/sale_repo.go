package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/pos-inventory/internal/domain/sale"
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

// saleRepository 销售单仓储实现(销售台账)
// 1. 销售单与明细在同一事务中写入、删除
// 2. 明细按LineNo排序,保持下单时的提交顺序
type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository 创建销售单仓储
func NewSaleRepository(db *gorm.DB) sale.Repository {
	return &saleRepository{db: db}
}

// Create 创建销售单(包含明细)
// GORM会自动创建关联的Items
func (r *saleRepository) Create(ctx context.Context, s *sale.Sale) error {
	model := toSaleModel(s)

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.WrapPersistence(err, "创建销售单失败")
	}

	// 回填ID
	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	for i := range s.Items {
		s.Items[i].ID = model.Items[i].ID
		s.Items[i].SaleID = model.ID
	}

	return nil
}

// FindByID 根据ID查找销售单(包含明细)
func (r *saleRepository) FindByID(ctx context.Context, id uint) (*sale.Sale, error) {
	return r.find(r.getDB(ctx), id, "查询销售单失败")
}

// LockByID 悲观锁查询销售单
// 两个并发撤销请求中,后到者在锁释放后读不到记录,返回ErrSaleNotFound
func (r *saleRepository) LockByID(ctx context.Context, id uint) (*sale.Sale, error) {
	return r.find(r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id, "锁定销售单失败")
}

func (r *saleRepository) find(db *gorm.DB, id uint, failMsg string) (*sale.Sale, error) {
	var model SaleModel
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("line_no ASC")
	}).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sale.ErrSaleNotFound
		}
		return nil, apperrors.WrapPersistence(err, failMsg)
	}

	return toSaleEntity(&model), nil
}

// Delete 删除销售单及其明细
// 显式先删明细(SQLite默认不启用外键级联)
func (r *saleRepository) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)

	if err := db.Where("sale_id = ?", id).Delete(&SaleItemModel{}).Error; err != nil {
		return apperrors.WrapPersistence(err, "删除销售明细失败")
	}

	result := db.Delete(&SaleModel{}, id)
	if result.Error != nil {
		return apperrors.WrapPersistence(result.Error, "删除销售单失败")
	}
	if result.RowsAffected == 0 {
		return sale.ErrSaleNotFound
	}

	return nil
}

// List 分页查询销售单(按创建时间倒序)
func (r *saleRepository) List(ctx context.Context, params sale.ListParams) ([]*sale.Sale, int64, error) {
	var models []SaleModel
	var total int64

	query := r.getDB(ctx).Model(&SaleModel{})
	if params.UserID != 0 {
		query = query.Where("user_id = ?", params.UserID)
	}
	if !params.From.IsZero() {
		query = query.Where("created_at >= ?", params.From)
	}
	if !params.To.IsZero() {
		query = query.Where("created_at < ?", params.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapPersistence(err, "查询销售单总数失败")
	}

	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		Order("created_at DESC").Order("id DESC").
		Scopes(paginate(params.Page, params.PageSize)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.WrapPersistence(err, "查询销售单列表失败")
	}

	sales := make([]*sale.Sale, len(models))
	for i := range models {
		sales[i] = toSaleEntity(&models[i])
	}

	return sales, total, nil
}

// Summary 销售单数与销售总额
func (r *saleRepository) Summary(ctx context.Context) (int64, decimal.Decimal, error) {
	var row struct {
		Count int64
		Total decimal.Decimal
	}
	err := r.getDB(ctx).Model(&SaleModel{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return 0, decimal.Zero, apperrors.WrapPersistence(err, "统计销售单失败")
	}
	return row.Count, row.Total, nil
}

func (r *saleRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toSaleModel(s *sale.Sale) *SaleModel {
	items := make([]SaleItemModel, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemModel{
			LineNo:      i + 1,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	return &SaleModel{
		ID:        s.ID,
		SaleNo:    s.SaleNo,
		UserID:    s.UserID,
		Total:     s.Total,
		Items:     items,
		CreatedAt: s.CreatedAt,
	}
}

func toSaleEntity(model *SaleModel) *sale.Sale {
	items := make([]sale.LineItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = sale.LineItem{
			ID:          item.ID,
			SaleID:      item.SaleID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	return &sale.Sale{
		ID:        model.ID,
		SaleNo:    model.SaleNo,
		UserID:    model.UserID,
		Total:     model.Total,
		Items:     items,
		CreatedAt: model.CreatedAt,
	}
}
