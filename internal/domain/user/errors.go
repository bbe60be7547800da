package user

import (
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

var (
	// ErrInvalidRole 角色只能是admin或employee
	ErrInvalidRole = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的角色")

	// ErrDeleteSelf 管理员不能删除自己的账号
	ErrDeleteSelf = apperrors.New(apperrors.ErrCodeForbidden, "不能删除自己的账号")

	// ErrDemoteSelf 管理员不能取消自己的管理员角色
	ErrDemoteSelf = apperrors.New(apperrors.ErrCodeForbidden, "不能取消自己的管理员角色")
)
