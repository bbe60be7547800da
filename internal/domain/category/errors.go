package category

import (
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

var (
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")

	// ErrInvalidName 名称为空或过长
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "分类名称不能为空且不超过255个字符")

	// ErrDuplicateName 名称已存在
	ErrDuplicateName = apperrors.New(apperrors.ErrCodeDuplicateEntry, "分类名称已存在")
)
