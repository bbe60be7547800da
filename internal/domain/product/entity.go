package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product 商品实体(聚合根)
// 设计说明:
// 1. 单价使用decimal(避免浮点数精度问题),数据库列为decimal(12,2)
// 2. Stock只由销售扣减、销售撤销恢复、管理员补货三种途径修改
// 3. 单价可随时调整,已成交销售单保存的是价格快照,不受影响
type Product struct {
	ID          uint
	Name        string
	Description string
	UnitPrice   decimal.Decimal // 单价
	Stock       int             // 库存数量
	CategoryID  *uint           // 所属分类,nil表示未分类
	ProviderID  *uint           // 供应商,nil表示未指定
	CreatedBy   uint            // 创建人用户ID

	// 只读:由仓储查询时关联填充
	CategoryName string
	ProviderName string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct 创建新商品(工厂方法)
func NewProduct(name, description string, unitPrice decimal.Decimal, stock int, categoryID, providerID *uint, createdBy uint) (*Product, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if unitPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	now := time.Now()
	return &Product{
		Name:        name,
		Description: description,
		UnitPrice:   unitPrice,
		Stock:       stock,
		CategoryID:  normalizeRef(categoryID),
		ProviderID:  normalizeRef(providerID),
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdatePrice 更新单价(领域行为)
// 业务规则:单价不能为负
func (p *Product) UpdatePrice(newPrice decimal.Decimal) error {
	if newPrice.IsNegative() {
		return ErrInvalidPrice
	}
	p.UnitPrice = newPrice
	p.UpdatedAt = time.Now()
	return nil
}

// CanSupply 库存是否满足需要量
func (p *Product) CanSupply(quantity int) bool {
	return p.Stock >= quantity
}

// DecrStock 扣减库存(用于销售)
// 业务规则:扣减后库存不能为负数
func (p *Product) DecrStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !p.CanSupply(quantity) {
		return InsufficientStock(p, quantity)
	}
	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	return nil
}

// IncrStock 增加库存(用于销售撤销、补货)
// 撤销时无条件恢复,不设上限
func (p *Product) IncrStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	p.Stock += quantity
	p.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新商品基本信息
// 空字符串表示不修改;分类/供应商为nil表示不修改,指向0表示清除
func (p *Product) UpdateInfo(name, description string, categoryID, providerID *uint) {
	if name != "" {
		p.Name = name
	}
	if description != "" {
		p.Description = description
	}
	if categoryID != nil {
		p.CategoryID = normalizeRef(categoryID)
		p.CategoryName = ""
	}
	if providerID != nil {
		p.ProviderID = normalizeRef(providerID)
		p.ProviderName = ""
	}
	p.UpdatedAt = time.Now()
}

// normalizeRef 0视为无引用
func normalizeRef(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}
