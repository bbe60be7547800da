package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/pos-inventory/internal/application/user"
	"github.com/xiebiao/pos-inventory/internal/domain/user"
	"github.com/xiebiao/pos-inventory/internal/interface/http/dto"
	"github.com/xiebiao/pos-inventory/internal/interface/http/middleware"
	"github.com/xiebiao/pos-inventory/pkg/response"
)

// UserAdminHandler 用户管理HTTP处理器,路由层挂RequireAdmin
type UserAdminHandler struct {
	useCase *appuser.UserAdminUseCase
}

func NewUserAdminHandler(useCase *appuser.UserAdminUseCase) *UserAdminHandler {
	return &UserAdminHandler{useCase: useCase}
}

// List 用户列表
// @Summary      用户列表
// @Tags         用户管理
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量(最大100)"
// @Param        role      query string false "角色" Enums(admin, employee)
// @Param        keyword   query string false "姓名或邮箱关键词"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.UserResponse}}
// @Failure      403 {object} response.Response "需要管理员权限"
// @Router       /api/v1/users [get]
func (h *UserAdminHandler) List(c *gin.Context) {
	var query dto.ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}
	page, pageSize := pageOf(query.Page, query.PageSize)

	result, err := h.useCase.List(c.Request.Context(), appuser.ListUsersRequest{
		Page:     page,
		PageSize: pageSize,
		Role:     user.Role(query.Role),
		Keyword:  query.Keyword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.UserResponse, len(result.Users))
	for i, u := range result.Users {
		list[i] = toUserResponse(u)
	}
	response.SuccessWithPage(c, list, result.Total, page, pageSize)
}

// Create 创建用户
// @Summary      创建用户
// @Description  管理员直接创建员工或管理员账号
// @Tags         用户管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateUserRequest true "用户信息"
// @Success      201 {object} response.Response{data=dto.UserResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "邮箱已存在"
// @Router       /api/v1/users [post]
func (h *UserAdminHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.useCase.Create(c.Request.Context(), appuser.CreateUserRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     user.Role(req.Role),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toUserResponse(result))
}

// Get 用户详情
// @Summary      用户详情
// @Tags         用户管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response{data=dto.UserResponse}
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/users/{id} [get]
func (h *UserAdminHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toUserResponse(result))
}

// Update 修改用户
// @Summary      修改用户
// @Description  可修改姓名、邮箱、密码、角色；不能取消自己的管理员角色
// @Tags         用户管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "用户ID"
// @Param        request body dto.UpdateUserRequest true "修改内容"
// @Success      200 {object} response.Response{data=dto.UserResponse}
// @Failure      403 {object} response.Response "不能取消自己的管理员角色"
// @Failure      404 {object} response.Response "用户不存在"
// @Failure      409 {object} response.Response "邮箱已存在"
// @Router       /api/v1/users/{id} [put]
func (h *UserAdminHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	update := appuser.UpdateUserRequest{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role := user.Role(*req.Role)
		update.Role = &role
	}

	result, err := h.useCase.Update(c.Request.Context(), middleware.MustGetUserID(c), update)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toUserResponse(result))
}

// Delete 删除用户
// @Summary      删除用户
// @Description  软删除并清除会话；不能删除自己
// @Tags         用户管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "不能删除自己的账号"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/users/{id} [delete]
func (h *UserAdminHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.useCase.Delete(c.Request.Context(), middleware.MustGetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
