package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/pos-inventory/internal/domain/user"
	"github.com/xiebiao/pos-inventory/pkg/logger"
)

// StatsInvalidator 统计缓存失效(用户数变化时调用)
type StatsInvalidator interface {
	InvalidateStatistics(ctx context.Context, reason string)
}

// CreateUserRequest 管理员创建用户
type CreateUserRequest struct {
	Email    string
	Password string
	Name     string
	Role     user.Role
}

// UpdateUserRequest nil字段不修改;Password为空串同样不修改
type UpdateUserRequest struct {
	ID       uint
	Name     *string
	Email    *string
	Password *string
	Role     *user.Role
}

// ListUsersRequest 用户列表查询
type ListUsersRequest struct {
	Page     int
	PageSize int
	Role     user.Role
	Keyword  string
}

// ListUsersResult 分页结果
type ListUsersResult struct {
	Users []*UserInfo
	Total int64
}

// UserAdminUseCase 用户管理(管理员)
// 管理员不能删除自己,也不能取消自己的管理员角色,保证系统里至少有一个可登录的管理员
type UserAdminUseCase struct {
	userService user.Service
	userRepo    user.Repository
	sessions    SessionStore
	stats       StatsInvalidator
}

func NewUserAdminUseCase(
	userService user.Service,
	userRepo user.Repository,
	sessions SessionStore,
	stats StatsInvalidator,
) *UserAdminUseCase {
	return &UserAdminUseCase{
		userService: userService,
		userRepo:    userRepo,
		sessions:    sessions,
		stats:       stats,
	}
}

func (uc *UserAdminUseCase) List(ctx context.Context, req ListUsersRequest) (*ListUsersResult, error) {
	if req.Role != "" && !req.Role.IsValid() {
		return nil, user.ErrInvalidRole
	}

	users, total, err := uc.userRepo.List(ctx, user.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Role:     req.Role,
		Keyword:  req.Keyword,
	})
	if err != nil {
		return nil, err
	}

	infos := make([]*UserInfo, len(users))
	for i, u := range users {
		infos[i] = toUserInfo(u)
	}
	return &ListUsersResult{Users: infos, Total: total}, nil
}

func (uc *UserAdminUseCase) Create(ctx context.Context, req CreateUserRequest) (*UserInfo, error) {
	u, err := uc.userService.CreateUser(ctx, req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user created by admin",
		zap.Uint("user_id", u.ID),
		zap.String("role", string(u.Role)),
	)
	uc.stats.InvalidateStatistics(ctx, "user.created")
	return toUserInfo(u), nil
}

func (uc *UserAdminUseCase) Get(ctx context.Context, id uint) (*UserInfo, error) {
	u, err := uc.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

// Update 修改资料、密码或角色,actorID为当前管理员
func (uc *UserAdminUseCase) Update(ctx context.Context, actorID uint, req UpdateUserRequest) (*UserInfo, error) {
	if req.ID == actorID && req.Role != nil && *req.Role != user.RoleAdmin {
		return nil, user.ErrDemoteSelf
	}

	u, err := uc.userService.UpdateUser(ctx, req.ID, user.UpdateParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user updated by admin",
		zap.Uint("user_id", u.ID),
		zap.Uint("actor_id", actorID),
		zap.String("role", string(u.Role)),
		zap.Bool("password_changed", req.Password != nil && *req.Password != ""),
	)
	return toUserInfo(u), nil
}

// Delete 删除用户(软删除)并清除其会话
// 会话清除失败只记录日志,用户已删除的事实不回滚
func (uc *UserAdminUseCase) Delete(ctx context.Context, actorID, id uint) error {
	if id == actorID {
		return user.ErrDeleteSelf
	}
	if err := uc.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	if err := uc.sessions.DeleteSession(ctx, id); err != nil {
		log.Warn("delete session of removed user failed", zap.Uint("user_id", id), zap.Error(err))
	}
	log.Info("user deleted by admin", zap.Uint("user_id", id), zap.Uint("actor_id", actorID))
	uc.stats.InvalidateStatistics(ctx, "user.deleted")
	return nil
}
