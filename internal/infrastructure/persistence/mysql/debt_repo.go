package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xiebiao/pos-inventory/internal/domain/debt"
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

type debtRepository struct {
	db *gorm.DB
}

// NewDebtRepository 创建欠款仓储
func NewDebtRepository(db *gorm.DB) debt.Repository {
	return &debtRepository{db: db}
}

func (r *debtRepository) Create(ctx context.Context, d *debt.Debt) error {
	model := toDebtModel(d)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.WrapPersistence(err, "创建欠款记录失败")
	}
	d.ID = model.ID
	d.CreatedAt = model.CreatedAt
	d.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *debtRepository) FindByID(ctx context.Context, id uint) (*debt.Debt, error) {
	var model DebtModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, debt.ErrDebtNotFound
		}
		return nil, apperrors.WrapPersistence(err, "查询欠款记录失败")
	}
	return toDebtEntity(&model), nil
}

func (r *debtRepository) Update(ctx context.Context, d *debt.Debt) error {
	model := toDebtModel(d)
	if err := r.getDB(ctx).Save(model).Error; err != nil {
		return apperrors.WrapPersistence(err, "更新欠款记录失败")
	}
	d.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *debtRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&DebtModel{}, id)
	if result.Error != nil {
		return apperrors.WrapPersistence(result.Error, "删除欠款记录失败")
	}
	if result.RowsAffected == 0 {
		return debt.ErrDebtNotFound
	}
	return nil
}

func (r *debtRepository) List(ctx context.Context, params debt.ListParams) ([]*debt.Debt, int64, error) {
	var models []DebtModel
	var total int64

	query := r.getDB(ctx).Model(&DebtModel{})
	if params.UserID != 0 {
		query = query.Where("user_id = ?", params.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapPersistence(err, "查询欠款总数失败")
	}

	err := query.Order("created_at DESC").Order("id DESC").
		Scopes(paginate(params.Page, params.PageSize)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.WrapPersistence(err, "查询欠款列表失败")
	}

	debts := make([]*debt.Debt, len(models))
	for i := range models {
		debts[i] = toDebtEntity(&models[i])
	}
	return debts, total, nil
}

// Summary 欠款记录数与未还清金额
func (r *debtRepository) Summary(ctx context.Context) (int64, decimal.Decimal, error) {
	var row struct {
		Count       int64
		Outstanding decimal.Decimal
	}
	err := r.getDB(ctx).Model(&DebtModel{}).
		Select("COUNT(*) AS count, COALESCE(SUM(CASE WHEN paid THEN 0 ELSE amount END), 0) AS outstanding").
		Scan(&row).Error
	if err != nil {
		return 0, decimal.Zero, apperrors.WrapPersistence(err, "统计欠款失败")
	}
	return row.Count, row.Outstanding, nil
}

func (r *debtRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func toDebtEntity(model *DebtModel) *debt.Debt {
	return &debt.Debt{
		ID:          model.ID,
		UserID:      model.UserID,
		Amount:      model.Amount,
		Description: model.Description,
		Paid:        model.Paid,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toDebtModel(d *debt.Debt) *DebtModel {
	return &DebtModel{
		ID:          d.ID,
		UserID:      d.UserID,
		Amount:      d.Amount,
		Description: d.Description,
		Paid:        d.Paid,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
