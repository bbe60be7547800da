package product

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/pos-inventory/internal/domain/product"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/pos-inventory/pkg/logger"
)

// GetProductUseCase 商品详情
type GetProductUseCase struct {
	productService product.Service
}

func NewGetProductUseCase(productService product.Service) *GetProductUseCase {
	return &GetProductUseCase{productService: productService}
}

func (uc *GetProductUseCase) Execute(ctx context.Context, id uint) (*ProductResult, error) {
	p, err := uc.productService.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResult(p), nil
}

// UpdateProductRequest 更新请求
// 字符串为空表示不修改,指针为nil表示不修改;CategoryID/ProviderID指向0表示清除
type UpdateProductRequest struct {
	ID          uint
	Name        string
	Description string
	CategoryID  *uint
	ProviderID  *uint
	UnitPrice   *decimal.Decimal
}

// UpdateProductUseCase 修改商品信息与单价
// 信息与价格在同一事务内更新;改价不影响已成交销售单的价格快照
type UpdateProductUseCase struct {
	productService product.Service
	refs           *CatalogRefs
	txManager      *mysql.TxManager
}

func NewUpdateProductUseCase(productService product.Service, refs *CatalogRefs, txManager *mysql.TxManager) *UpdateProductUseCase {
	return &UpdateProductUseCase{productService: productService, refs: refs, txManager: txManager}
}

func (uc *UpdateProductUseCase) Execute(ctx context.Context, req UpdateProductRequest) (*ProductResult, error) {
	var updated *product.Product
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		if err := uc.refs.check(ctx, req.CategoryID, req.ProviderID); err != nil {
			return err
		}
		if _, err := uc.productService.UpdateProductInfo(ctx, req.ID, req.Name, req.Description, req.CategoryID, req.ProviderID); err != nil {
			return err
		}
		if req.UnitPrice != nil {
			if _, err := uc.productService.UpdateProductPrice(ctx, req.ID, *req.UnitPrice); err != nil {
				return err
			}
		}
		p, err := uc.productService.GetProductByID(ctx, req.ID)
		if err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{zap.Uint("product_id", updated.ID)}
	if req.UnitPrice != nil {
		fields = append(fields, zap.String("unit_price", updated.UnitPrice.StringFixed(2)))
	}
	logger.FromContext(ctx).Info("product updated", fields...)

	return ToProductResult(updated), nil
}

// RestockUseCase 补货
type RestockUseCase struct {
	productService product.Service
	stats          StatsInvalidator
}

func NewRestockUseCase(productService product.Service, stats StatsInvalidator) *RestockUseCase {
	return &RestockUseCase{productService: productService, stats: stats}
}

// Execute 库存 += quantity(quantity必须大于0)
func (uc *RestockUseCase) Execute(ctx context.Context, id uint, quantity int) (*ProductResult, error) {
	p, err := uc.productService.Restock(ctx, id, quantity)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("product restocked",
		zap.Uint("product_id", p.ID),
		zap.Int("quantity", quantity),
		zap.Int("stock", p.Stock),
	)
	uc.stats.InvalidateStatistics(ctx, "product.restocked")
	return ToProductResult(p), nil
}

// DeleteProductUseCase 下架商品
type DeleteProductUseCase struct {
	productService product.Service
	stats          StatsInvalidator
}

func NewDeleteProductUseCase(productService product.Service, stats StatsInvalidator) *DeleteProductUseCase {
	return &DeleteProductUseCase{productService: productService, stats: stats}
}

// Execute 软删除:历史销售单仍保留明细,撤销时库存照常恢复
func (uc *DeleteProductUseCase) Execute(ctx context.Context, id uint) error {
	if err := uc.productService.DeleteProduct(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("product deleted", zap.Uint("product_id", id))
	uc.stats.InvalidateStatistics(ctx, "product.deleted")
	return nil
}
