package user

import (
	"time"
)

// Role 用户角色
type Role string

const (
	RoleAdmin    Role = "admin"    // 管理员:维护商品、查看全部销售单和报表
	RoleEmployee Role = "employee" // 员工:下单、查看本人销售单和欠款
)

// IsValid 是否为已知角色
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 密码已加密存储（bcrypt），不应该有GetPassword()等方法暴露明文
// 2. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Name      string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码，角色缺省为员工
func NewUser(email, hashedPassword, name string, role Role) *User {
	if !role.IsValid() {
		role = RoleEmployee
	}
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UpdateName 更新姓名（领域行为）
func (u *User) UpdateName(name string) {
	u.Name = name
	u.UpdatedAt = time.Now()
}
