package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/pos-inventory/internal/infrastructure/config"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/pos-inventory/pkg/jwt"
	"github.com/xiebiao/pos-inventory/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type body struct {
	Code int    `json:"code"`
	Kind string `json:"kind"`
}

func serve(r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, body) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var b body
	_ = json.Unmarshal(w.Body.Bytes(), &b)
	return w, b
}

func newAuthEngine(t *testing.T) (*gin.Engine, *jwt.Manager, *redis.SessionStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	sessions := redis.NewSessionStore(client)
	auth := NewAuthMiddleware(manager, sessions)

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": MustGetUserID(c), "role": GetRole(c)})
	})
	r.GET("/admin", auth.RequireAuth(), auth.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, manager, sessions
}

func bearer(path, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestRequireAuth(t *testing.T) {
	r, manager, sessions := newAuthEngine(t)

	pair, err := manager.GenerateToken(7, "clerk@shop.com", "小王", "employee")
	require.NoError(t, err)

	t.Run("缺少Token", func(t *testing.T) {
		w, b := serve(r, bearer("/me", ""))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Unauthorized", b.Kind)
	})

	t.Run("格式错误", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token "+pair.AccessToken)
		w, b := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "InvalidToken", b.Kind)
	})

	t.Run("伪造Token", func(t *testing.T) {
		w, _ := serve(r, bearer("/me", "not.a.jwt"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("有效Token注入用户信息", func(t *testing.T) {
		w, _ := serve(r, bearer("/me", pair.AccessToken))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got struct {
			UserID uint   `json:"user_id"`
			Role   string `json:"role"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.EqualValues(t, 7, got.UserID)
		assert.Equal(t, "employee", got.Role)
	})

	t.Run("黑名单Token被拒绝", func(t *testing.T) {
		require.NoError(t, sessions.AddToBlacklist(context.Background(), pair.AccessToken, time.Minute))

		w, b := serve(r, bearer("/me", pair.AccessToken))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "TokenExpired", b.Kind)
	})
}

func TestRequireAdmin(t *testing.T) {
	r, manager, _ := newAuthEngine(t)

	employee, err := manager.GenerateToken(1, "clerk@shop.com", "小王", "employee")
	require.NoError(t, err)
	admin, err := manager.GenerateToken(2, "boss@shop.com", "老板", "admin")
	require.NoError(t, err)

	w, b := serve(r, bearer("/admin", employee.AccessToken))
	assert.Equal(t, http.StatusForbidden, w.Code, "员工访问管理接口")
	assert.Equal(t, "Forbidden", b.Kind)

	w, _ = serve(r, bearer("/admin", admin.AccessToken))
	assert.Equal(t, http.StatusOK, w.Code, "管理员访问管理接口")
}

func TestCORS(t *testing.T) {
	newEngine := func(cfg config.CORSConfig) *gin.Engine {
		r := gin.New()
		r.Use(CORS(cfg))
		r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}
	preflight := func(origin string) *http.Request {
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", origin)
		return req
	}

	t.Run("白名单Origin", func(t *testing.T) {
		r := newEngine(config.CORSConfig{
			Enabled:      true,
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST"},
			MaxAge:       12 * time.Hour,
		})

		w, _ := serve(r, preflight("http://localhost:3000"))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))

		w, _ = serve(r, preflight("http://evil.example"))
		assert.Equal(t, http.StatusForbidden, w.Code, "未授权Origin")
	})

	t.Run("通配符携带凭证时回写具体Origin", func(t *testing.T) {
		r := newEngine(config.CORSConfig{Enabled: true, AllowOrigins: []string{"*"}, AllowCredentials: true})

		w, _ := serve(r, preflight("http://pos.example"))
		assert.Equal(t, "http://pos.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("非跨域请求放行", func(t *testing.T) {
		r := newEngine(config.CORSConfig{Enabled: true, AllowOrigins: []string{"http://localhost:3000"}})

		w, _ := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestLoggerAndRecovery(t *testing.T) {
	var ctxLogger *zap.Logger

	r := gin.New()
	r.Use(Recovery(), Logger(zap.NewNop()))
	r.GET("/ok", func(c *gin.Context) {
		ctxLogger = logger.FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	t.Run("沿用上游请求ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		w, _ := serve(r, req)

		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
		assert.NotNil(t, ctxLogger, "请求context中应有日志器")
	})

	t.Run("生成请求ID", func(t *testing.T) {
		w, _ := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
		assert.Len(t, w.Header().Get(RequestIDHeader), 36, "UUID格式")
	})

	t.Run("panic转为统一内部错误", func(t *testing.T) {
		w, b := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, 50000, b.Code)
	})
}
