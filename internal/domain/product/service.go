package product

import (
	"context"

	"github.com/shopspring/decimal"
)

// maxUnitPrice 单价上限(与数据库列decimal(12,2)一致)
var maxUnitPrice = decimal.RequireFromString("9999999999.99")

// Service 商品领域服务接口
// 设计说明:
// 1. 商品维护(上架、改价、补货、下架)只允许管理员操作,权限由interface层中间件保证
// 2. 库存扣减不走Service,由销售用例在事务内直接调用Repository
type Service interface {
	// CreateProduct 新增商品
	// 分类、供应商是否存在由应用层校验
	CreateProduct(ctx context.Context, name, description string, unitPrice decimal.Decimal, stock int, categoryID, providerID *uint, createdBy uint) (*Product, error)

	// GetProductByID 根据ID获取商品
	GetProductByID(ctx context.Context, id uint) (*Product, error)

	// UpdateProductInfo 更新商品基本信息
	UpdateProductInfo(ctx context.Context, id uint, name, description string, categoryID, providerID *uint) (*Product, error)

	// UpdateProductPrice 调整单价
	// 已成交的销售单不受影响(明细保存价格快照)
	UpdateProductPrice(ctx context.Context, id uint, newPrice decimal.Decimal) (*Product, error)

	// Restock 补货
	Restock(ctx context.Context, id uint, quantity int) (*Product, error)

	// DeleteProduct 下架商品(软删除)
	DeleteProduct(ctx context.Context, id uint) error

	// ListProducts 分页查询商品列表
	ListProducts(ctx context.Context, params ListParams) ([]*Product, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建商品领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateProduct(ctx context.Context, name, description string, unitPrice decimal.Decimal, stock int, categoryID, providerID *uint, createdBy uint) (*Product, error) {
	if !isValidPrice(unitPrice) {
		return nil, ErrInvalidPrice
	}

	p, err := NewProduct(name, description, unitPrice, stock, categoryID, providerID, createdBy)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProductByID(ctx context.Context, id uint) (*Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) UpdateProductInfo(ctx context.Context, id uint, name, description string, categoryID, providerID *uint) (*Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.UpdateInfo(name, description, categoryID, providerID)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UpdateProductPrice(ctx context.Context, id uint, newPrice decimal.Decimal) (*Product, error) {
	if !isValidPrice(newPrice) {
		return nil, ErrInvalidPrice
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.UpdatePrice(newPrice); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Restock 补货
// 使用UpdateStock原子增加,避免与并发销售互相覆盖库存
func (s *service) Restock(ctx context.Context, id uint, quantity int) (*Product, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	if err := s.repo.UpdateStock(ctx, id, quantity); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, params ListParams) ([]*Product, int64, error) {
	return s.repo.List(ctx, params)
}

// isValidPrice 单价范围:0 ~ 9999999999.99,最多两位小数
func isValidPrice(price decimal.Decimal) bool {
	if price.IsNegative() || price.GreaterThan(maxUnitPrice) {
		return false
	}
	return price.Equal(price.Round(2))
}
