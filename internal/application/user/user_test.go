package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/pos-inventory/internal/domain/user"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/config"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
	"github.com/xiebiao/pos-inventory/pkg/jwt"
)

type recordingStats struct {
	reasons []string
}

func (r *recordingStats) InvalidateStatistics(_ context.Context, reason string) {
	r.reasons = append(r.reasons, reason)
}

type userEnv struct {
	admin    *UserAdminUseCase
	stats    *recordingStats
	register *RegisterUseCase
	login    *LoginUseCase
	logout   *LogoutUseCase
	refresh  *RefreshTokenUseCase
	profile  *GetProfileUseCase
	sessions *redis.SessionStore
	jwt      *jwt.Manager
}

func newUserEnv(t *testing.T) *userEnv {
	t.Helper()

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", TxTimeout: time.Second},
	}
	db, err := mysql.NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	userRepo := mysql.NewUserRepository(db)
	userService := user.NewServiceWithCost(userRepo, bcrypt.MinCost)
	jwtManager := jwt.NewManager("test-secret", 15*time.Minute, 24*time.Hour)
	sessions := redis.NewSessionStore(client)
	stats := &recordingStats{}

	return &userEnv{
		admin:    NewUserAdminUseCase(userService, userRepo, sessions, stats),
		stats:    stats,
		register: NewRegisterUseCase(userService, "boss@shop.com", stats),
		login:    NewLoginUseCase(userService, jwtManager, sessions),
		logout:   NewLogoutUseCase(sessions, jwtManager),
		refresh:  NewRefreshTokenUseCase(jwtManager),
		profile:  NewGetProfileUseCase(userRepo),
		sessions: sessions,
		jwt:      jwtManager,
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	env := newUserEnv(t)

	t.Run("普通注册为员工", func(t *testing.T) {
		info, err := env.register.Execute(ctx, RegisterRequest{Email: "clerk@shop.com", Password: "password123", Name: "小王"})
		require.NoError(t, err)
		assert.NotZero(t, info.ID)
		assert.Equal(t, string(user.RoleEmployee), info.Role)
		assert.Equal(t, []string{"user.registered"}, env.stats.reasons)
	})

	t.Run("引导邮箱注册为管理员", func(t *testing.T) {
		info, err := env.register.Execute(ctx, RegisterRequest{Email: "Boss@Shop.com", Password: "password123", Name: "老板"})
		require.NoError(t, err)
		assert.Equal(t, string(user.RoleAdmin), info.Role)
	})

	t.Run("邮箱重复", func(t *testing.T) {
		_, err := env.register.Execute(ctx, RegisterRequest{Email: "clerk@shop.com", Password: "password123", Name: "小王"})
		assert.True(t, errors.Is(err, apperrors.ErrEmailDuplicate))
	})

	t.Run("弱密码", func(t *testing.T) {
		_, err := env.register.Execute(ctx, RegisterRequest{Email: "weak@shop.com", Password: "12345678", Name: "小李"})
		assert.True(t, errors.Is(err, apperrors.ErrWeakPassword))
	})
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	env := newUserEnv(t)

	registered, err := env.register.Execute(ctx, RegisterRequest{Email: "clerk@shop.com", Password: "password123", Name: "小王"})
	require.NoError(t, err)

	t.Run("密码错误", func(t *testing.T) {
		_, err := env.login.Execute(ctx, LoginRequest{Email: "clerk@shop.com", Password: "wrongpass1"})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidPassword))
	})

	t.Run("登录签发带角色的Token并保存会话", func(t *testing.T) {
		resp, err := env.login.Execute(ctx, LoginRequest{Email: "clerk@shop.com", Password: "password123", ClientIP: "10.0.0.8"})
		require.NoError(t, err)
		assert.Equal(t, registered.ID, resp.User.ID)
		assert.Equal(t, int64(15*60), resp.ExpiresIn)

		claims, err := env.jwt.ParseToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, string(user.RoleEmployee), claims.Role)
		assert.False(t, claims.IsAdmin())

		session, err := env.sessions.GetSession(ctx, registered.ID)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.8", session["ip"])
		assert.Equal(t, "employee", session["role"])

		t.Run("刷新Token", func(t *testing.T) {
			refreshed, err := env.refresh.Execute(ctx, resp.RefreshToken)
			require.NoError(t, err)
			assert.NotEqual(t, resp.AccessToken, refreshed.AccessToken)
		})

		t.Run("登出后Token进入黑名单", func(t *testing.T) {
			require.NoError(t, env.logout.Execute(ctx, registered.ID, resp.AccessToken))

			blacklisted, err := env.sessions.IsInBlacklist(ctx, resp.AccessToken)
			require.NoError(t, err)
			assert.True(t, blacklisted)
		})
	})

	t.Run("查询个人信息", func(t *testing.T) {
		info, err := env.profile.Execute(ctx, registered.ID)
		require.NoError(t, err)
		assert.Equal(t, "小王", info.Name)

		_, err = env.profile.Execute(ctx, 9999)
		assert.True(t, errors.Is(err, apperrors.ErrUserNotFound))
	})
}

func TestUserAdmin(t *testing.T) {
	ctx := context.Background()
	env := newUserEnv(t)

	boss, err := env.admin.Create(ctx, CreateUserRequest{Email: "boss@shop.com", Password: "password123", Name: "老板", Role: user.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, string(user.RoleAdmin), boss.Role)

	clerk, err := env.admin.Create(ctx, CreateUserRequest{Email: "clerk@shop.com", Password: "password123", Name: "小王", Role: user.RoleEmployee})
	require.NoError(t, err)

	t.Run("创建时校验", func(t *testing.T) {
		_, err := env.admin.Create(ctx, CreateUserRequest{Email: "x@shop.com", Password: "password123", Name: "小李", Role: "cashier"})
		assert.True(t, errors.Is(err, user.ErrInvalidRole))

		_, err = env.admin.Create(ctx, CreateUserRequest{Email: "clerk@shop.com", Password: "password123", Name: "小王", Role: user.RoleEmployee})
		assert.True(t, errors.Is(err, apperrors.ErrEmailDuplicate))
	})

	t.Run("列表按角色与关键词过滤", func(t *testing.T) {
		all, err := env.admin.List(ctx, ListUsersRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), all.Total)

		admins, err := env.admin.List(ctx, ListUsersRequest{Role: user.RoleAdmin})
		require.NoError(t, err)
		require.Len(t, admins.Users, 1)
		assert.Equal(t, boss.ID, admins.Users[0].ID)

		found, err := env.admin.List(ctx, ListUsersRequest{Keyword: "clerk"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), found.Total)

		_, err = env.admin.List(ctx, ListUsersRequest{Role: "root"})
		assert.True(t, errors.Is(err, user.ErrInvalidRole))
	})

	t.Run("修改资料与密码", func(t *testing.T) {
		name, password := "王小明", "newpass456"
		updated, err := env.admin.Update(ctx, boss.ID, UpdateUserRequest{ID: clerk.ID, Name: &name, Password: &password})
		require.NoError(t, err)
		assert.Equal(t, "王小明", updated.Name)

		_, err = env.login.Execute(ctx, LoginRequest{Email: "clerk@shop.com", Password: "password123"})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidPassword), "旧密码失效")
		_, err = env.login.Execute(ctx, LoginRequest{Email: "clerk@shop.com", Password: "newpass456"})
		require.NoError(t, err)
	})

	t.Run("邮箱与其他用户冲突", func(t *testing.T) {
		email := "boss@shop.com"
		_, err := env.admin.Update(ctx, boss.ID, UpdateUserRequest{ID: clerk.ID, Email: &email})
		assert.True(t, errors.Is(err, apperrors.ErrEmailDuplicate))
	})

	t.Run("非法字段不部分生效", func(t *testing.T) {
		name, weak := "小红", "short"
		_, err := env.admin.Update(ctx, boss.ID, UpdateUserRequest{ID: clerk.ID, Name: &name, Password: &weak})
		assert.True(t, errors.Is(err, apperrors.ErrWeakPassword))

		current, err := env.admin.Get(ctx, clerk.ID)
		require.NoError(t, err)
		assert.Equal(t, "王小明", current.Name)
	})

	t.Run("不能取消自己的管理员角色", func(t *testing.T) {
		employee := user.RoleEmployee
		_, err := env.admin.Update(ctx, boss.ID, UpdateUserRequest{ID: boss.ID, Role: &employee})
		assert.True(t, errors.Is(err, user.ErrDemoteSelf))
		assert.Equal(t, 403, apperrors.HTTPStatus(apperrors.GetAppError(err).Code))
	})

	t.Run("提升员工为管理员", func(t *testing.T) {
		admin := user.RoleAdmin
		updated, err := env.admin.Update(ctx, boss.ID, UpdateUserRequest{ID: clerk.ID, Role: &admin})
		require.NoError(t, err)
		assert.Equal(t, string(user.RoleAdmin), updated.Role)
	})

	t.Run("删除用户", func(t *testing.T) {
		assert.True(t, errors.Is(env.admin.Delete(ctx, boss.ID, boss.ID), user.ErrDeleteSelf))

		require.NoError(t, env.sessions.SaveSession(ctx, clerk.ID, map[string]interface{}{"ip": "10.0.0.8"}, time.Hour))
		require.NoError(t, env.admin.Delete(ctx, boss.ID, clerk.ID))
		assert.Equal(t, "user.deleted", env.stats.reasons[len(env.stats.reasons)-1])

		_, err := env.admin.Get(ctx, clerk.ID)
		assert.True(t, errors.Is(err, apperrors.ErrUserNotFound))

		_, err = env.sessions.GetSession(ctx, clerk.ID)
		assert.Error(t, err, "会话已清除")

		assert.True(t, errors.Is(env.admin.Delete(ctx, boss.ID, clerk.ID), apperrors.ErrUserNotFound))
		t.Logf("✓ 用户删除: id=%d", clerk.ID)
	})
}
