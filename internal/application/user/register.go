package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/pos-inventory/internal/domain/user"
	"github.com/xiebiao/pos-inventory/pkg/logger"
)

// RegisterUseCase 用户注册用例
// 以配置中的引导邮箱注册的用户获得管理员角色,其余为员工
type RegisterUseCase struct {
	userService user.Service
	adminEmail  string
	stats       StatsInvalidator
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, adminEmail string, stats StatsInvalidator) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		adminEmail:  adminEmail,
		stats:       stats,
	}
}

// Execute 执行注册
// 返回：UserInfo（应用层DTO，不是领域实体）
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	u, err := uc.userService.Register(ctx, req.Email, req.Password, req.Name, uc.adminEmail)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user registered",
		zap.Uint("user_id", u.ID),
		zap.String("role", string(u.Role)),
	)
	uc.stats.InvalidateStatistics(ctx, "user.registered")

	return toUserInfo(u), nil
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Name     string
}

// UserInfo 用户信息
// 说明：不返回密码字段（安全考虑）
type UserInfo struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func toUserInfo(u *user.User) *UserInfo {
	return &UserInfo{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
}
