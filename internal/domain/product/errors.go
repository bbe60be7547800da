package product

import (
	"fmt"

	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

// 商品领域错误定义
var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = apperrors.New(apperrors.ErrCodeProductNotFound, "商品不存在")

	// ErrInvalidName 商品名称为空
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "商品名称不能为空")

	// ErrInvalidPrice 无效的单价
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "单价不能为负数")

	// ErrInvalidStock 无效的库存
	ErrInvalidStock = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")

	// ErrInvalidQuantity 无效的数量
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidQuantity, "数量必须大于0")

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")
)

// StockShortage 库存不足详情
type StockShortage struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
	Shortfall   int    `json:"shortfall"`
}

// InsufficientStock 构造携带商品、需要量、可用量的库存不足错误
func InsufficientStock(p *Product, requested int) *apperrors.AppError {
	return ErrInsufficientStock.
		WithMessage(fmt.Sprintf("商品《%s》库存不足,当前库存:%d,需要:%d", p.Name, p.Stock, requested)).
		WithDetails(StockShortage{
			ProductID:   p.ID,
			ProductName: p.Name,
			Requested:   requested,
			Available:   p.Stock,
			Shortfall:   requested - p.Stock,
		})
}
