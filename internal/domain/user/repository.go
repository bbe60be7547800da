package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/mysql层
// 3. 便于单元测试（Mock此接口）
type Repository interface {
	// Create 创建用户
	// 注意：如果邮箱已存在，应返回errors.ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	// 如果不存在，返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户
	// 如果不存在，返回errors.ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update 更新用户信息
	// 邮箱与其他用户冲突时返回errors.ErrEmailDuplicate
	Update(ctx context.Context, user *User) error

	// Delete 删除用户（软删除）
	Delete(ctx context.Context, id uint) error

	// List 分页查询用户
	List(ctx context.Context, params ListParams) ([]*User, int64, error)

	// Count 用户总数（报表统计）
	Count(ctx context.Context) (int64, error)
}

// ListParams 用户列表查询参数
type ListParams struct {
	Page     int
	PageSize int
	Role     Role   // 为空表示不限
	Keyword  string // 匹配姓名或邮箱
}
