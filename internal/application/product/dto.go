package product

import (
	"time"

	"github.com/xiebiao/pos-inventory/internal/domain/product"
)

// ProductResult 商品响应DTO
type ProductResult struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	UnitPrice    string `json:"unit_price"`
	Stock        int    `json:"stock"`
	CategoryID   *uint  `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	ProviderID   *uint  `json:"provider_id"`
	ProviderName string `json:"provider_name,omitempty"`
	CreatedBy    uint   `json:"created_by"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// ToProductResult 领域实体 → DTO
func ToProductResult(p *product.Product) *ProductResult {
	return &ProductResult{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		UnitPrice:    p.UnitPrice.StringFixed(2),
		Stock:        p.Stock,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		ProviderID:   p.ProviderID,
		ProviderName: p.ProviderName,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}
}
