package product

import (
	"context"

	"github.com/xiebiao/pos-inventory/internal/domain/product"
)

// ListProductsUseCase 商品列表查询用例
// 1. 支持分页、搜索、排序
// 2. 管理员后台与收银台共用
type ListProductsUseCase struct {
	productService product.Service
}

// NewListProductsUseCase 创建列表查询用例
func NewListProductsUseCase(productService product.Service) *ListProductsUseCase {
	return &ListProductsUseCase{productService: productService}
}

// ListProductsRequest 列表查询请求DTO
type ListProductsRequest struct {
	Page       int    // 页码(从1开始)
	PageSize   int    // 每页数量
	Keyword    string // 搜索关键词(名称、描述)
	CategoryID uint   // 按分类过滤
	ProviderID uint   // 按供应商过滤
	SortBy     string // 排序方式(price_asc, price_desc, stock_asc, name_asc)
}

// ListProductsResponse 列表查询响应DTO
type ListProductsResponse struct {
	List     []*ProductResult
	Total    int64
	Page     int
	PageSize int
}

// Execute 执行列表查询用例
func (uc *ListProductsUseCase) Execute(ctx context.Context, req ListProductsRequest) (*ListProductsResponse, error) {
	// 1. 参数默认值与范围限制
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	// 2. 调用领域服务查询
	products, total, err := uc.productService.ListProducts(ctx, product.ListParams{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Keyword:    req.Keyword,
		CategoryID: req.CategoryID,
		ProviderID: req.ProviderID,
		SortBy:     req.SortBy,
	})
	if err != nil {
		return nil, err
	}

	// 3. 领域实体 → DTO
	list := make([]*ProductResult, len(products))
	for i, p := range products {
		list[i] = ToProductResult(p)
	}

	return &ListProductsResponse{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}
