package dto

// PlaceSaleRequest 下单请求
// items的校验(非空、数量大于0)交给销售用例,以便返回EmptyItemList/InvalidQuantity错误种类
type PlaceSaleRequest struct {
	Items []PlaceSaleItem `json:"items"`
}

// PlaceSaleItem 下单明细
type PlaceSaleItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// ListSalesQuery 销售单列表查询参数
// 时间格式RFC3339,user_id仅管理员有效
type ListSalesQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	UserID   uint   `form:"user_id"`
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To       string `form:"to" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}
