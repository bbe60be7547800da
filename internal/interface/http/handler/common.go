package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
	"github.com/xiebiao/pos-inventory/pkg/response"
)

// bindError 参数绑定/校验失败
func bindError(c *gin.Context, err error) {
	response.Error(c, apperrors.ErrBindError.WithMessage("参数错误: "+err.Error()))
}

// pathID 解析路径中的:id
// 非正整数直接返回参数错误，调用方无需再处理
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperrors.ErrInvalidParams.WithMessage("无效的ID: "+c.Param("id")))
		return 0, false
	}
	return uint(id), true
}

// 分页默认值，与仓储层的分页上限保持一致
const (
	defaultPage     = 1
	defaultPageSize = 20
)

func pageOf(page, pageSize int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return page, pageSize
}
