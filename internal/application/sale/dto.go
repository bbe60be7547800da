package sale

import (
	"time"

	"github.com/xiebiao/pos-inventory/internal/domain/sale"
)

// PlaceSaleRequest 下单请求
type PlaceSaleRequest struct {
	UserID uint            // 经办员工ID(从JWT中提取)
	Items  []PlaceSaleItem // 按提交顺序处理
}

// PlaceSaleItem 下单明细
type PlaceSaleItem struct {
	ProductID uint
	Quantity  int
}

// Actor 当前操作人
type Actor struct {
	UserID  uint
	IsAdmin bool
}

// CanAccess 管理员可以操作全部销售单,员工只能操作自己的
func (a Actor) CanAccess(s *sale.Sale) bool {
	return a.IsAdmin || s.IsOwnedBy(a.UserID)
}

// SaleResult 销售单响应
type SaleResult struct {
	ID        uint             `json:"id"`
	SaleNo    string           `json:"sale_no"`
	UserID    uint             `json:"user_id"`
	Total     string           `json:"total"`
	Items     []LineItemResult `json:"items"`
	CreatedAt string           `json:"created_at"`
}

// LineItemResult 销售明细响应
type LineItemResult struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

// ToSaleResult 领域实体 → 响应DTO(金额保留两位小数)
func ToSaleResult(s *sale.Sale) *SaleResult {
	items := make([]LineItemResult, len(s.Items))
	for i, item := range s.Items {
		items[i] = LineItemResult{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Subtotal:    item.Subtotal().StringFixed(2),
		}
	}

	return &SaleResult{
		ID:        s.ID,
		SaleNo:    s.SaleNo,
		UserID:    s.UserID,
		Total:     s.Total.StringFixed(2),
		Items:     items,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}
