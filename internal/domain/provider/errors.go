package provider

import (
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

var (
	// ErrProviderNotFound 供应商不存在
	ErrProviderNotFound = apperrors.New(apperrors.ErrCodeProviderNotFound, "供应商不存在")

	ErrInvalidName  = apperrors.New(apperrors.ErrCodeInvalidParams, "供应商名称不能为空且不超过255个字符")
	ErrInvalidPhone = apperrors.New(apperrors.ErrCodeInvalidParams, "电话不超过20个字符")
	ErrInvalidEmail = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")

	// ErrDuplicateEmail 邮箱已被其他供应商使用
	ErrDuplicateEmail = apperrors.New(apperrors.ErrCodeDuplicateEntry, "供应商邮箱已存在")
)
