package dto

import "github.com/shopspring/decimal"

// CreateProductRequest 新增商品请求
// 单价支持JSON数字或字符串("2.50"),最多两位小数
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,max=200"`
	Description string           `json:"description" binding:"max=2000"`
	UnitPrice   *decimal.Decimal `json:"unit_price" binding:"required" swaggertype:"string" example:"2.50"`
	Stock       int              `json:"stock" binding:"min=0"`
	CategoryID  *uint            `json:"category_id" example:"1"`
	ProviderID  *uint            `json:"provider_id" example:"1"`
}

// UpdateProductRequest 修改商品请求,省略的字段不修改
// category_id/provider_id传0表示清除
type UpdateProductRequest struct {
	Name        string           `json:"name" binding:"max=200"`
	Description string           `json:"description" binding:"max=2000"`
	UnitPrice   *decimal.Decimal `json:"unit_price" swaggertype:"string" example:"2.80"`
	CategoryID  *uint            `json:"category_id"`
	ProviderID  *uint            `json:"provider_id"`
}

// RestockRequest 补货请求
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ListProductsQuery 商品列表查询参数
type ListProductsQuery struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Keyword    string `form:"keyword" binding:"max=100"`
	CategoryID uint   `form:"category_id"`
	ProviderID uint   `form:"provider_id"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc stock_asc name_asc"`
}
