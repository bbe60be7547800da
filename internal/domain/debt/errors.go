package debt

import (
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

var (
	// ErrDebtNotFound 欠款记录不存在
	ErrDebtNotFound = apperrors.New(apperrors.ErrCodeDebtNotFound, "欠款记录不存在")

	// ErrInvalidAmount 金额不合法
	ErrInvalidAmount = apperrors.New(apperrors.ErrCodeInvalidParams, "欠款金额不能为负数")

	// ErrInvalidUser 未指定欠款员工
	ErrInvalidUser = apperrors.New(apperrors.ErrCodeInvalidParams, "必须指定欠款员工")

	// ErrForbidden 无权操作他人的欠款记录
	ErrForbidden = apperrors.New(apperrors.ErrCodeForbidden, "无权操作此欠款记录")
)
