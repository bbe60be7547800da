package debt

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/pos-inventory/internal/domain/debt"
	"github.com/xiebiao/pos-inventory/internal/domain/user"
	"github.com/xiebiao/pos-inventory/pkg/logger"
)

// Actor 当前操作人
type Actor struct {
	UserID  uint
	IsAdmin bool
}

func (a Actor) canAccess(d *debt.Debt) bool {
	return a.IsAdmin || d.IsOwnedBy(a.UserID)
}

// DebtResult 欠款响应DTO
type DebtResult struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Paid        bool   `json:"paid"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toDebtResult(d *debt.Debt) *DebtResult {
	return &DebtResult{
		ID:          d.ID,
		UserID:      d.UserID,
		Amount:      d.Amount.StringFixed(2),
		Description: d.Description,
		Paid:        d.Paid,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   d.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateDebtRequest 登记欠款(管理员)
type CreateDebtRequest struct {
	UserID      uint
	Amount      decimal.Decimal
	Description string
}

// UpdateDebtRequest nil字段不修改
type UpdateDebtRequest struct {
	ID          uint
	Amount      *decimal.Decimal
	Description *string
	Paid        *bool
}

// ListDebtsRequest 员工只能看到自己的欠款
type ListDebtsRequest struct {
	Actor    Actor
	UserID   uint
	Page     int
	PageSize int
}

// ListDebtsResult 分页结果
type ListDebtsResult struct {
	Debts []*DebtResult
	Total int64
}

// StatsInvalidator 统计缓存失效(欠款数、未还金额变化时调用)
type StatsInvalidator interface {
	InvalidateStatistics(ctx context.Context, reason string)
}

// DebtUseCase 员工欠款管理
// 登记只允许管理员(由路由中间件保证);查看、修改、删除限管理员或欠款人本人
type DebtUseCase struct {
	debtRepo debt.Repository
	userRepo user.Repository
	stats    StatsInvalidator
}

// NewDebtUseCase 创建欠款用例
func NewDebtUseCase(debtRepo debt.Repository, userRepo user.Repository, stats StatsInvalidator) *DebtUseCase {
	return &DebtUseCase{debtRepo: debtRepo, userRepo: userRepo, stats: stats}
}

// Create 登记欠款,欠款员工必须存在
func (uc *DebtUseCase) Create(ctx context.Context, req CreateDebtRequest) (*DebtResult, error) {
	d, err := debt.NewDebt(req.UserID, req.Amount, req.Description)
	if err != nil {
		return nil, err
	}
	if _, err := uc.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	if err := uc.debtRepo.Create(ctx, d); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("debt created",
		zap.Uint("debt_id", d.ID),
		zap.Uint("user_id", d.UserID),
		zap.String("amount", d.Amount.StringFixed(2)),
	)
	uc.stats.InvalidateStatistics(ctx, "debt.created")
	return toDebtResult(d), nil
}

// Get 查看欠款详情
func (uc *DebtUseCase) Get(ctx context.Context, id uint, actor Actor) (*DebtResult, error) {
	d, err := uc.load(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return toDebtResult(d), nil
}

// List 分页查询
func (uc *DebtUseCase) List(ctx context.Context, req ListDebtsRequest) (*ListDebtsResult, error) {
	userID := req.UserID
	if !req.Actor.IsAdmin {
		userID = req.Actor.UserID
	}

	debts, total, err := uc.debtRepo.List(ctx, debt.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		UserID:   userID,
	})
	if err != nil {
		return nil, err
	}

	results := make([]*DebtResult, len(debts))
	for i, d := range debts {
		results[i] = toDebtResult(d)
	}
	return &ListDebtsResult{Debts: results, Total: total}, nil
}

// Update 修改金额、说明或还款状态
func (uc *DebtUseCase) Update(ctx context.Context, req UpdateDebtRequest, actor Actor) (*DebtResult, error) {
	d, err := uc.load(ctx, req.ID, actor)
	if err != nil {
		return nil, err
	}
	if err := d.Update(req.Amount, req.Description, req.Paid); err != nil {
		return nil, err
	}
	if err := uc.debtRepo.Update(ctx, d); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("debt updated",
		zap.Uint("debt_id", d.ID),
		zap.Uint("actor_id", actor.UserID),
		zap.Bool("paid", d.Paid),
	)
	uc.stats.InvalidateStatistics(ctx, "debt.updated")
	return toDebtResult(d), nil
}

// Delete 删除欠款记录
func (uc *DebtUseCase) Delete(ctx context.Context, id uint, actor Actor) error {
	if _, err := uc.load(ctx, id, actor); err != nil {
		return err
	}
	if err := uc.debtRepo.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("debt deleted", zap.Uint("debt_id", id), zap.Uint("actor_id", actor.UserID))
	uc.stats.InvalidateStatistics(ctx, "debt.deleted")
	return nil
}

func (uc *DebtUseCase) load(ctx context.Context, id uint, actor Actor) (*debt.Debt, error) {
	d, err := uc.debtRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canAccess(d) {
		return nil, debt.ErrForbidden
	}
	return d, nil
}
