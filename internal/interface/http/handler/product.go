package handler

import (
	"github.com/gin-gonic/gin"

	appproduct "github.com/xiebiao/pos-inventory/internal/application/product"
	"github.com/xiebiao/pos-inventory/internal/interface/http/dto"
	"github.com/xiebiao/pos-inventory/internal/interface/http/middleware"
	"github.com/xiebiao/pos-inventory/pkg/response"
)

// ProductHandler 商品HTTP处理器
// 写操作由路由层挂RequireAdmin，收银台只走ListForShop
type ProductHandler struct {
	createUseCase  *appproduct.CreateProductUseCase
	getUseCase     *appproduct.GetProductUseCase
	listUseCase    *appproduct.ListProductsUseCase
	updateUseCase  *appproduct.UpdateProductUseCase
	restockUseCase *appproduct.RestockUseCase
	deleteUseCase  *appproduct.DeleteProductUseCase
}

// NewProductHandler 创建商品处理器
func NewProductHandler(
	createUseCase *appproduct.CreateProductUseCase,
	getUseCase *appproduct.GetProductUseCase,
	listUseCase *appproduct.ListProductsUseCase,
	updateUseCase *appproduct.UpdateProductUseCase,
	restockUseCase *appproduct.RestockUseCase,
	deleteUseCase *appproduct.DeleteProductUseCase,
) *ProductHandler {
	return &ProductHandler{
		createUseCase:  createUseCase,
		getUseCase:     getUseCase,
		listUseCase:    listUseCase,
		updateUseCase:  updateUseCase,
		restockUseCase: restockUseCase,
		deleteUseCase:  deleteUseCase,
	}
}

// Create 新增商品
// @Summary      新增商品
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateProductRequest true "商品信息"
// @Success      201 {object} response.Response{data=appproduct.ProductResult} "创建成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "需要管理员权限"
// @Failure      404 {object} response.Response "分类或供应商不存在"
// @Router       /api/v1/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appproduct.CreateProductRequest{
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   *req.UnitPrice,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		ProviderID:  req.ProviderID,
		CreatedBy:   middleware.MustGetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Get 商品详情
// @Summary      商品详情
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response{data=appproduct.ProductResult}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// List 商品列表
// @Summary      商品列表
// @Description  分页查询，支持关键词搜索(名称、描述)、按分类或供应商过滤和排序
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量(最大100)"
// @Param        keyword   query string false "关键词"
// @Param        category_id query int  false "分类ID"
// @Param        provider_id query int  false "供应商ID"
// @Param        sort_by   query string false "排序" Enums(price_asc, price_desc, stock_asc, name_asc)
// @Success      200 {object} response.Response{data=response.PageData{list=[]appproduct.ProductResult}}
// @Router       /api/v1/products [get]
// @Router       /api/v1/products-for-shop [get]
func (h *ProductHandler) List(c *gin.Context) {
	var query dto.ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appproduct.ListProductsRequest{
		Page:       query.Page,
		PageSize:   query.PageSize,
		Keyword:    query.Keyword,
		CategoryID: query.CategoryID,
		ProviderID: query.ProviderID,
		SortBy:     query.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// Update 修改商品信息或单价
// @Summary      修改商品
// @Description  改价不影响已成交销售单的价格快照
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                       true "商品ID"
// @Param        request body dto.UpdateProductRequest true "修改内容"
// @Success      200 {object} response.Response{data=appproduct.ProductResult}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), appproduct.UpdateProductRequest{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		ProviderID:  req.ProviderID,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Restock 补货
// @Summary      补货
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                 true "商品ID"
// @Param        request body dto.RestockRequest true "补货数量"
// @Success      200 {object} response.Response{data=appproduct.ProductResult}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/products/{id}/restock [post]
func (h *ProductHandler) Restock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.restockUseCase.Execute(c.Request.Context(), id, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 下架商品(软删除)
// @Summary      删除商品
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.deleteUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
