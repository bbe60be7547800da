package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/pos-inventory/internal/application/catalog"
	"github.com/xiebiao/pos-inventory/internal/interface/http/dto"
	"github.com/xiebiao/pos-inventory/pkg/response"
)

// CategoryHandler 商品分类HTTP处理器(管理员)
type CategoryHandler struct {
	useCase *appcatalog.CategoryUseCase
}

func NewCategoryHandler(useCase *appcatalog.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{useCase: useCase}
}

// Create 新增分类
// @Summary      新增分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CategoryRequest true "分类名称"
// @Success      201 {object} response.Response{data=appcatalog.CategoryResult}
// @Failure      409 {object} response.Response "名称已存在"
// @Router       /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.useCase.Create(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List 分类列表
// @Summary      分类列表
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appcatalog.CategoryResult}
// @Router       /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	result, err := h.useCase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Get 分类详情
// @Summary      分类详情
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response{data=appcatalog.CategoryResult}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Update 重命名分类
// @Summary      修改分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                 true "分类ID"
// @Param        request body dto.CategoryRequest true "分类名称"
// @Success      200 {object} response.Response{data=appcatalog.CategoryResult}
// @Failure      404 {object} response.Response "分类不存在"
// @Failure      409 {object} response.Response "名称已存在"
// @Router       /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.useCase.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除分类
// @Summary      删除分类
// @Description  引用该分类的商品变为未分类
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.useCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ProviderHandler 供应商HTTP处理器(管理员)
type ProviderHandler struct {
	useCase *appcatalog.ProviderUseCase
}

func NewProviderHandler(useCase *appcatalog.ProviderUseCase) *ProviderHandler {
	return &ProviderHandler{useCase: useCase}
}

// Create 新增供应商
// @Summary      新增供应商
// @Tags         供应商
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateProviderRequest true "供应商信息"
// @Success      201 {object} response.Response{data=appcatalog.ProviderResult}
// @Failure      409 {object} response.Response "邮箱已存在"
// @Router       /api/v1/providers [post]
func (h *ProviderHandler) Create(c *gin.Context) {
	var req dto.CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.useCase.Create(c.Request.Context(), appcatalog.CreateProviderRequest{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List 供应商列表
// @Summary      供应商列表
// @Tags         供应商
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appcatalog.ProviderResult}
// @Router       /api/v1/providers [get]
func (h *ProviderHandler) List(c *gin.Context) {
	result, err := h.useCase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Get 供应商详情
// @Summary      供应商详情
// @Tags         供应商
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "供应商ID"
// @Success      200 {object} response.Response{data=appcatalog.ProviderResult}
// @Failure      404 {object} response.Response "供应商不存在"
// @Router       /api/v1/providers/{id} [get]
func (h *ProviderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Update 修改供应商
// @Summary      修改供应商
// @Tags         供应商
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                       true "供应商ID"
// @Param        request body dto.UpdateProviderRequest true "修改内容"
// @Success      200 {object} response.Response{data=appcatalog.ProviderResult}
// @Failure      404 {object} response.Response "供应商不存在"
// @Failure      409 {object} response.Response "邮箱已存在"
// @Router       /api/v1/providers/{id} [put]
func (h *ProviderHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.useCase.Update(c.Request.Context(), appcatalog.UpdateProviderRequest{
		ID:    id,
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除供应商
// @Summary      删除供应商
// @Description  引用该供应商的商品供应商置空
// @Tags         供应商
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "供应商ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "供应商不存在"
// @Router       /api/v1/providers/{id} [delete]
func (h *ProviderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.useCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
