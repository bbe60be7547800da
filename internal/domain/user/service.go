package user

import (
	"context"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

// Service 用户领域服务
// 设计说明：
// 1. Service包含不属于单个实体的业务逻辑（如密码加密、验证）
// 2. Service依赖Repository接口，不依赖具体实现（依赖倒置）
// 3. Service不处理HTTP请求，只处理业务逻辑
type Service interface {
	// Register 用户注册
	// adminEmail非空且与email一致时，注册为管理员（首个管理员的引导方式）
	Register(ctx context.Context, email, password, name, adminEmail string) (*User, error)

	// CreateUser 按指定角色创建用户（管理员后台、create-admin命令）
	CreateUser(ctx context.Context, email, password, name string, role Role) (*User, error)

	// UpdateUser 修改用户资料，nil字段不修改；密码非空时重新加密
	UpdateUser(ctx context.Context, id uint, params UpdateParams) (*User, error)

	// Login 用户登录
	Login(ctx context.Context, email, password string) (*User, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error
}

type service struct {
	repo Repository
	cost int
}

// DefaultCost bcrypt加密强度（cost每+1，耗时翻倍）
const DefaultCost = 12

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo, cost: DefaultCost}
}

// NewServiceWithCost 指定bcrypt强度（测试中使用bcrypt.MinCost加速）
func NewServiceWithCost(repo Repository, cost int) Service {
	return &service{repo: repo, cost: cost}
}

// Register 用户注册
// 默认角色为员工，引导邮箱注册为管理员
func (s *service) Register(ctx context.Context, email, password, name, adminEmail string) (*User, error) {
	role := RoleEmployee
	if adminEmail != "" && strings.EqualFold(email, adminEmail) {
		role = RoleAdmin
	}
	return s.CreateUser(ctx, email, password, name, role)
}

// CreateUser 创建用户
// 业务规则：
// 1. 邮箱格式校验
// 2. 密码强度校验（8-20位，包含字母和数字）
// 3. 密码bcrypt加密（cost=12）
// 4. 邮箱唯一性由数据库UNIQUE索引保证
func (s *service) CreateUser(ctx context.Context, email, password, name string, role Role) (*User, error) {
	// 1. 邮箱格式校验
	if !isValidEmail(email) {
		return nil, errInvalidEmail
	}

	// 2. 密码强度校验
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	// 3. 姓名、角色校验
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	// 4. 密码加密（bcrypt自动加盐）
	hashedPassword, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	// 5. 持久化到数据库
	user := NewUser(email, hashedPassword, name, role)
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err // Repository已转换为业务错误
	}

	return user, nil
}

// UpdateParams 用户资料修改项
type UpdateParams struct {
	Name     *string
	Email    *string
	Password *string
	Role     *Role
}

// UpdateUser 修改用户资料
// 全部校验通过后才写库，任何一项非法都不会部分生效
func (s *service) UpdateUser(ctx context.Context, id uint, params UpdateParams) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		if err := validateName(*params.Name); err != nil {
			return nil, err
		}
		user.Name = *params.Name
	}
	if params.Email != nil {
		if !isValidEmail(*params.Email) {
			return nil, errInvalidEmail
		}
		user.Email = *params.Email
	}
	if params.Role != nil {
		if !params.Role.IsValid() {
			return nil, ErrInvalidRole
		}
		user.Role = *params.Role
	}
	if params.Password != nil && *params.Password != "" {
		if err := validatePasswordStrength(*params.Password); err != nil {
			return nil, err
		}
		hashed, err := s.hash(*params.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", apperrors.Wrap(err, "密码加密失败")
	}
	return string(hashed), nil
}

// Login 用户登录
// 业务规则：
// 1. 邮箱必须存在
// 2. 密码必须正确
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	// 1. 根据邮箱查找用户
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err // Repository已转换为ErrUserNotFound
	}

	// 2. 验证密码
	if err := s.ValidatePassword(user.Password, password); err != nil {
		return nil, err // 返回ErrInvalidPassword
	}

	return user, nil
}

// ValidatePassword 验证密码
// 说明：登录时使用，验证明文密码与哈希值是否匹配
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

// =========================================
// 辅助函数：业务规则校验
// =========================================

var errInvalidEmail = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")

// validateName 姓名2-50个字符
func validateName(name string) error {
	if len(name) < 2 || len(name) > 50 {
		return apperrors.New(apperrors.ErrCodeInvalidParams, "姓名长度应为2-50个字符")
	}
	return nil
}

// isValidEmail 邮箱格式校验
// 简单的正则校验，生产环境可使用更严格的RFC 5322标准
func isValidEmail(email string) bool {
	// 正则表达式：用户名@域名.后缀
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}

// validatePasswordStrength 密码强度校验
// 规则：8-20位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	// 长度校验
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}

	// 必须包含字母
	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	// 必须包含数字
	hasDigit := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasLetter || !hasDigit {
		return apperrors.ErrWeakPassword
	}

	return nil
}
