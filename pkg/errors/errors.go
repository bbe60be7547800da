package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息
// 3. Details携带结构化上下文（如库存不足时的商品、需要量、可用量）
// 4. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int         `json:"code"`              // 业务错误码
	Message string      `json:"message"`           // 用户友好的错误提示
	Details interface{} `json:"details,omitempty"` // 结构化错误详情
	Err     error       `json:"-"`                 // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较
// 预定义错误是共享指针，WithDetails/WithMessage会复制出新实例，
// 仍需让errors.Is(err, ErrInsufficientStock)成立
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Kind 错误种类名称（面向调用方的判别字段）
func (e *AppError) Kind() string {
	if kind, ok := kinds[e.Code]; ok {
		return kind
	}
	if e.Code >= 50000 {
		return "Internal"
	}
	return "BusinessError"
}

// WithDetails 返回携带详情的副本（不修改预定义错误）
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithMessage 返回替换提示信息的副本
func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WrapPersistence 包装存储层错误（PersistenceError）
// 事务超时也归为存储错误
func WrapPersistence(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误
	ErrCodeForbidden       = 40104 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound         = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound     = 40401 // 用户不存在
	ErrCodeProductNotFound  = 40402 // 商品不存在
	ErrCodeSaleNotFound     = 40403 // 销售单不存在
	ErrCodeDebtNotFound     = 40404 // 欠款记录不存在
	ErrCodeCategoryNotFound = 40405 // 分类不存在
	ErrCodeProviderNotFound = 40406 // 供应商不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError     = 40000 // 业务错误(通用)
	ErrCodeInsufficientStock = 40001 // 库存不足
	ErrCodeEmptyItemList     = 40002 // 销售明细为空
	ErrCodeEmailDuplicate    = 40003 // 邮箱已存在
	ErrCodeWeakPassword      = 40005 // 密码强度不足
	ErrCodeDuplicateEntry    = 40009 // 重复记录(通用)

	// 参数错误（40900-40999）
	ErrCodeInvalidParams   = 40900 // 参数错误
	ErrCodeBindError       = 40901 // 参数绑定失败
	ErrCodeInvalidQuantity = 40902 // 数量非法
)

// kinds 错误码 → 错误种类
var kinds = map[int]string{
	ErrCodeDatabaseError:     "PersistenceError",
	ErrCodeRedisError:        "CacheError",
	ErrCodeUnauthorized:      "Unauthorized",
	ErrCodeInvalidToken:      "InvalidToken",
	ErrCodeTokenExpired:      "TokenExpired",
	ErrCodeInvalidPassword:   "InvalidPassword",
	ErrCodeForbidden:         "Forbidden",
	ErrCodeNotFound:          "NotFound",
	ErrCodeUserNotFound:      "UserNotFound",
	ErrCodeProductNotFound:   "ProductNotFound",
	ErrCodeSaleNotFound:      "SaleNotFound",
	ErrCodeDebtNotFound:      "DebtNotFound",
	ErrCodeCategoryNotFound:  "CategoryNotFound",
	ErrCodeProviderNotFound:  "ProviderNotFound",
	ErrCodeInsufficientStock: "InsufficientStock",
	ErrCodeEmptyItemList:     "EmptyItemList",
	ErrCodeEmailDuplicate:    "EmailDuplicate",
	ErrCodeWeakPassword:      "WeakPassword",
	ErrCodeDuplicateEntry:    "DuplicateEntry",
	ErrCodeInvalidParams:     "InvalidParams",
	ErrCodeBindError:         "BindError",
	ErrCodeInvalidQuantity:   "InvalidQuantity",
}

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限访问")

	// 资源不存在
	ErrUserNotFound = New(ErrCodeUserNotFound, "用户不存在")

	// 业务规则
	ErrEmailDuplicate = New(ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrWeakPassword   = New(ErrCodeWeakPassword, "密码强度不足（需8-20位，包含字母和数字）")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
// 事务超时、取消等context错误统一视为存储错误
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return WrapPersistence(err, "事务超时")
	}
	return Wrap(err, "系统内部错误")
}

// HTTPStatus 业务错误码 → HTTP状态码
// 业务码前三位对应HTTP语义（40400→404），参数错误段409xx归为400
func HTTPStatus(code int) int {
	switch {
	case code == 0:
		return http.StatusOK
	case code >= 50000:
		return http.StatusInternalServerError
	case code == ErrCodeForbidden:
		return http.StatusForbidden
	case code >= 40100 && code < 40200:
		return http.StatusUnauthorized
	case code >= 40400 && code < 40500:
		return http.StatusNotFound
	case code == ErrCodeEmailDuplicate || code == ErrCodeDuplicateEntry:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
