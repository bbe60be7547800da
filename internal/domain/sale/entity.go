package sale

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale 销售单实体(聚合根)
// 设计说明:
// 1. Sale是聚合根,LineItem是子实体,明细随销售单一起创建、一起删除
// 2. SaleNo为业务单号,ID为数据库主键
// 3. Total冗余存储,恒等于明细的单价快照×数量之和
type Sale struct {
	ID        uint
	SaleNo    string          // 销售单号(全局唯一)
	UserID    uint            // 经办员工ID
	Total     decimal.Decimal // 总金额
	Items     []LineItem      // 销售明细(保持提交顺序)
	CreatedAt time.Time
}

// LineItem 销售明细
// UnitPrice记录"成交时的单价"(价格快照),商品后续改价不影响历史销售单
type LineItem struct {
	ID          uint
	SaleID      uint
	ProductID   uint
	ProductName string // 成交时的商品名称
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Subtotal 明细小计
func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewSale 创建销售单(工厂方法)
// 总金额由明细计算得出,调用方无法指定
func NewSale(saleNo string, userID uint, items []LineItem) (*Sale, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItemList
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	s := &Sale{
		SaleNo:    saleNo,
		UserID:    userID,
		Items:     items,
		CreatedAt: time.Now(),
	}
	s.Total = s.CalculateTotal()
	return s, nil
}

// CalculateTotal 按明细重新计算总金额
func (s *Sale) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// IsReconciled 总金额是否与明细一致
func (s *Sale) IsReconciled() bool {
	return s.Total.Equal(s.CalculateTotal())
}

// IsOwnedBy 检查销售单是否属于指定用户
func (s *Sale) IsOwnedBy(userID uint) bool {
	return s.UserID == userID
}

// QuantityByProduct 按商品汇总数量(同一商品可出现在多条明细中)
func (s *Sale) QuantityByProduct() map[uint]int {
	m := make(map[uint]int, len(s.Items))
	for _, item := range s.Items {
		m[item.ProductID] += item.Quantity
	}
	return m
}
