package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appsale "github.com/xiebiao/pos-inventory/internal/application/sale"
	"github.com/xiebiao/pos-inventory/internal/interface/http/dto"
	"github.com/xiebiao/pos-inventory/internal/interface/http/middleware"
	"github.com/xiebiao/pos-inventory/pkg/response"
)

// SaleHandler 销售单HTTP处理器
type SaleHandler struct {
	placeUseCase  *appsale.PlaceSaleUseCase
	cancelUseCase *appsale.CancelSaleUseCase
	getUseCase    *appsale.GetSaleUseCase
	listUseCase   *appsale.ListSalesUseCase
}

// NewSaleHandler 创建销售单处理器
func NewSaleHandler(
	placeUseCase *appsale.PlaceSaleUseCase,
	cancelUseCase *appsale.CancelSaleUseCase,
	getUseCase *appsale.GetSaleUseCase,
	listUseCase *appsale.ListSalesUseCase,
) *SaleHandler {
	return &SaleHandler{
		placeUseCase:  placeUseCase,
		cancelUseCase: cancelUseCase,
		getUseCase:    getUseCase,
		listUseCase:   listUseCase,
	}
}

// PlaceSale 下单
// @Summary      下单
// @Description  按提交顺序逐项锁定商品并扣减库存，任一明细失败则整单回滚；
// @Description  同一商品出现多次时按累计数量校验库存
// @Tags         销售
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PlaceSaleRequest true "销售明细"
// @Success      201 {object} response.Response{data=appsale.SaleResult} "下单成功"
// @Failure      400 {object} response.Response "EmptyItemList / InvalidQuantity / InsufficientStock"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "ProductNotFound"
// @Failure      500 {object} response.Response "PersistenceError"
// @Router       /api/v1/sales [post]
func (h *SaleHandler) PlaceSale(c *gin.Context) {
	var req dto.PlaceSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	items := make([]appsale.PlaceSaleItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = appsale.PlaceSaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	result, err := h.placeUseCase.Execute(c.Request.Context(), appsale.PlaceSaleRequest{
		UserID: middleware.MustGetUserID(c),
		Items:  items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// CancelSale 撤销销售单
// @Summary      撤销销售单
// @Description  归还全部明细库存并删除销售单(管理员或经办人)
// @Tags         销售
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "销售单ID"
// @Success      200 {object} response.Response "撤销成功"
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "SaleNotFound"
// @Failure      500 {object} response.Response "PersistenceError"
// @Router       /api/v1/sales/{id} [delete]
func (h *SaleHandler) CancelSale(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := h.cancelUseCase.Execute(c.Request.Context(), appsale.CancelSaleRequest{
		SaleID: id,
		Actor:  saleActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetSale 销售单详情
// @Summary      销售单详情
// @Tags         销售
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "销售单ID"
// @Success      200 {object} response.Response{data=appsale.SaleResult}
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "SaleNotFound"
// @Router       /api/v1/sales/{id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), id, saleActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListSales 销售单列表
// @Summary      销售单列表
// @Description  管理员可查看全部并按员工过滤；员工只能看到自己的销售单
// @Tags         销售
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量(最大100)"
// @Param        user_id   query int    false "经办员工(仅管理员)"
// @Param        from      query string false "开始时间(RFC3339)"
// @Param        to        query string false "结束时间(RFC3339)"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appsale.SaleResult}}
// @Router       /api/v1/sales [get]
func (h *SaleHandler) ListSales(c *gin.Context) {
	var query dto.ListSalesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	// binding已校验格式，这里解析不会失败
	var from, to time.Time
	if query.From != "" {
		from, _ = time.Parse(time.RFC3339, query.From)
	}
	if query.To != "" {
		to, _ = time.Parse(time.RFC3339, query.To)
	}

	page, pageSize := pageOf(query.Page, query.PageSize)
	result, err := h.listUseCase.Execute(c.Request.Context(), appsale.ListSalesRequest{
		Actor:    saleActor(c),
		Page:     page,
		PageSize: pageSize,
		UserID:   query.UserID,
		From:     from,
		To:       to,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.Sales, result.Total, page, pageSize)
}

func saleActor(c *gin.Context) appsale.Actor {
	return appsale.Actor{UserID: middleware.MustGetUserID(c), IsAdmin: middleware.IsAdmin(c)}
}
