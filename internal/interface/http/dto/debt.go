package dto

import "github.com/shopspring/decimal"

// CreateDebtRequest 登记欠款请求
type CreateDebtRequest struct {
	UserID      uint             `json:"user_id" binding:"required"`
	Amount      *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"120.50"`
	Description string           `json:"description" binding:"max=500"`
}

// UpdateDebtRequest 修改欠款请求,省略的字段不修改
type UpdateDebtRequest struct {
	Amount      *decimal.Decimal `json:"amount" swaggertype:"string" example:"80.00"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Paid        *bool            `json:"paid"`
}

// ListDebtsQuery 欠款列表查询参数
type ListDebtsQuery struct {
	Page     int  `form:"page" binding:"omitempty,min=1"`
	PageSize int  `form:"page_size" binding:"omitempty,min=1,max=100"`
	UserID   uint `form:"user_id"`
}
