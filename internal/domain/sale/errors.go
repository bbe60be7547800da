package sale

import (
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

// 销售领域错误定义
var (
	// ErrSaleNotFound 销售单不存在
	ErrSaleNotFound = apperrors.New(apperrors.ErrCodeSaleNotFound, "销售单不存在")

	// ErrEmptyItemList 销售明细为空
	ErrEmptyItemList = apperrors.New(apperrors.ErrCodeEmptyItemList, "销售明细不能为空")

	// ErrInvalidQuantity 销售数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidQuantity, "销售数量必须大于0")

	// ErrForbidden 无权操作他人的销售单
	ErrForbidden = apperrors.New(apperrors.ErrCodeForbidden, "无权操作此销售单")
)
