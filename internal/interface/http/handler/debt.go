package handler

import (
	"github.com/gin-gonic/gin"

	appdebt "github.com/xiebiao/pos-inventory/internal/application/debt"
	"github.com/xiebiao/pos-inventory/internal/interface/http/dto"
	"github.com/xiebiao/pos-inventory/internal/interface/http/middleware"
	"github.com/xiebiao/pos-inventory/pkg/response"
)

// DebtHandler 员工欠款HTTP处理器
type DebtHandler struct {
	debtUseCase *appdebt.DebtUseCase
}

// NewDebtHandler 创建欠款处理器
func NewDebtHandler(debtUseCase *appdebt.DebtUseCase) *DebtHandler {
	return &DebtHandler{debtUseCase: debtUseCase}
}

// Create 登记欠款
// @Summary      登记欠款
// @Tags         欠款
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateDebtRequest true "欠款信息"
// @Success      201 {object} response.Response{data=appdebt.DebtResult}
// @Failure      403 {object} response.Response "需要管理员权限"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/debts [post]
func (h *DebtHandler) Create(c *gin.Context) {
	var req dto.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.debtUseCase.Create(c.Request.Context(), appdebt.CreateDebtRequest{
		UserID:      req.UserID,
		Amount:      *req.Amount,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Get 欠款详情
// @Summary      欠款详情
// @Tags         欠款
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "欠款ID"
// @Success      200 {object} response.Response{data=appdebt.DebtResult}
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "欠款记录不存在"
// @Router       /api/v1/debts/{id} [get]
func (h *DebtHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.debtUseCase.Get(c.Request.Context(), id, debtActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// List 欠款列表
// @Summary      欠款列表
// @Description  管理员可查看全部；员工只能看到自己的欠款
// @Tags         欠款
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "页码"
// @Param        page_size query int false "每页数量(最大100)"
// @Param        user_id   query int false "欠款员工(仅管理员)"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appdebt.DebtResult}}
// @Router       /api/v1/debts [get]
func (h *DebtHandler) List(c *gin.Context) {
	var query dto.ListDebtsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	page, pageSize := pageOf(query.Page, query.PageSize)
	result, err := h.debtUseCase.List(c.Request.Context(), appdebt.ListDebtsRequest{
		Actor:    debtActor(c),
		UserID:   query.UserID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.Debts, result.Total, page, pageSize)
}

// Update 修改欠款
// @Summary      修改欠款
// @Tags         欠款
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                    true "欠款ID"
// @Param        request body dto.UpdateDebtRequest true "修改内容"
// @Success      200 {object} response.Response{data=appdebt.DebtResult}
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "欠款记录不存在"
// @Router       /api/v1/debts/{id} [put]
func (h *DebtHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.debtUseCase.Update(c.Request.Context(), appdebt.UpdateDebtRequest{
		ID:          id,
		Amount:      req.Amount,
		Description: req.Description,
		Paid:        req.Paid,
	}, debtActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除欠款
// @Summary      删除欠款
// @Tags         欠款
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "欠款ID"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "欠款记录不存在"
// @Router       /api/v1/debts/{id} [delete]
func (h *DebtHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.debtUseCase.Delete(c.Request.Context(), id, debtActor(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func debtActor(c *gin.Context) appdebt.Actor {
	return appdebt.Actor{UserID: middleware.MustGetUserID(c), IsAdmin: middleware.IsAdmin(c)}
}
