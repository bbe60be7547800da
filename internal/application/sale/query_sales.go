package sale

import (
	"context"
	"time"

	"github.com/xiebiao/pos-inventory/internal/domain/sale"
)

// GetSaleUseCase 查询销售单详情
type GetSaleUseCase struct {
	saleRepo sale.Repository
}

func NewGetSaleUseCase(saleRepo sale.Repository) *GetSaleUseCase {
	return &GetSaleUseCase{saleRepo: saleRepo}
}

// Execute 员工只能查看自己经办的销售单
func (uc *GetSaleUseCase) Execute(ctx context.Context, saleID uint, actor Actor) (*SaleResult, error) {
	s, err := uc.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(s) {
		return nil, sale.ErrForbidden
	}
	return ToSaleResult(s), nil
}

// ListSalesRequest 列表查询条件
type ListSalesRequest struct {
	Actor    Actor
	Page     int
	PageSize int
	UserID   uint // 仅管理员可指定,员工固定为本人
	From     time.Time
	To       time.Time
}

// ListSalesResult 分页结果
type ListSalesResult struct {
	Sales []*SaleResult
	Total int64
}

// ListSalesUseCase 分页查询销售单
type ListSalesUseCase struct {
	saleRepo sale.Repository
}

func NewListSalesUseCase(saleRepo sale.Repository) *ListSalesUseCase {
	return &ListSalesUseCase{saleRepo: saleRepo}
}

func (uc *ListSalesUseCase) Execute(ctx context.Context, req ListSalesRequest) (*ListSalesResult, error) {
	userID := req.UserID
	if !req.Actor.IsAdmin {
		userID = req.Actor.UserID
	}

	sales, total, err := uc.saleRepo.List(ctx, sale.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		UserID:   userID,
		From:     req.From,
		To:       req.To,
	})
	if err != nil {
		return nil, err
	}

	results := make([]*SaleResult, len(sales))
	for i, s := range sales {
		results[i] = ToSaleResult(s)
	}
	return &ListSalesResult{Sales: results, Total: total}, nil
}
