package dto

// CategoryRequest 新增或重命名分类
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=255" example:"饮料"`
}

// CreateProviderRequest 新增供应商请求
type CreateProviderRequest struct {
	Name  string `json:"name" binding:"required,max=255" example:"华润"`
	Phone string `json:"phone" binding:"max=20" example:"021-12345678"`
	Email string `json:"email" binding:"omitempty,email,max=255" example:"sales@example.com"`
}

// UpdateProviderRequest 修改供应商请求,省略的字段不修改,phone/email传空串表示清空
type UpdateProviderRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=255"`
	Phone *string `json:"phone" binding:"omitempty,max=20"`
	Email *string `json:"email" binding:"omitempty,max=255"`
}
