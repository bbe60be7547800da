package product

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/pos-inventory/internal/domain/product"
	"github.com/xiebiao/pos-inventory/pkg/logger"
)

// CreateProductUseCase 新增商品(管理员)
type CreateProductUseCase struct {
	productService product.Service
	refs           *CatalogRefs
	stats          StatsInvalidator
}

// NewCreateProductUseCase 创建新增商品用例
func NewCreateProductUseCase(productService product.Service, refs *CatalogRefs, stats StatsInvalidator) *CreateProductUseCase {
	return &CreateProductUseCase{productService: productService, refs: refs, stats: stats}
}

// CreateProductRequest 新增商品请求
type CreateProductRequest struct {
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	Stock       int
	CategoryID  *uint // 可选,必须是已存在的分类
	ProviderID  *uint // 可选,必须是已存在的供应商
	CreatedBy   uint  // 从JWT中提取
}

// Execute 执行新增
func (uc *CreateProductUseCase) Execute(ctx context.Context, req CreateProductRequest) (*ProductResult, error) {
	if err := uc.refs.check(ctx, req.CategoryID, req.ProviderID); err != nil {
		return nil, err
	}

	p, err := uc.productService.CreateProduct(ctx,
		req.Name, req.Description, req.UnitPrice, req.Stock, req.CategoryID, req.ProviderID, req.CreatedBy)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("product created",
		zap.Uint("product_id", p.ID),
		zap.String("name", p.Name),
		zap.Int("stock", p.Stock),
		zap.Uint("created_by", req.CreatedBy),
	)
	uc.stats.InvalidateStatistics(ctx, "product.created")

	// 重新加载以带出分类、供应商名称
	if loaded, err := uc.productService.GetProductByID(ctx, p.ID); err == nil {
		p = loaded
	}
	return ToProductResult(p), nil
}
