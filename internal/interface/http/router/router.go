// Package router 组装Gin引擎:全局中间件、Swagger、指标端点与业务路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/pos-inventory/internal/infrastructure/config"
	"github.com/xiebiao/pos-inventory/internal/interface/http/handler"
	"github.com/xiebiao/pos-inventory/internal/interface/http/middleware"
	"github.com/xiebiao/pos-inventory/pkg/response"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	User      *handler.UserHandler
	Product   *handler.ProductHandler
	Sale      *handler.SaleHandler
	Debt      *handler.DebtHandler
	Report    *handler.ReportHandler
	Category  *handler.CategoryHandler
	Provider  *handler.ProviderHandler
	UserAdmin *handler.UserAdminHandler
}

// New 创建并配置Gin引擎
// 中间件顺序：Recovery → Tracing → Logger → Metrics → CORS
// Tracing在Logger之前，访问日志才能带上trace_id
func New(cfg *config.Config, log *zap.Logger, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing())
	}
	r.Use(middleware.Logger(log))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}
	if cfg.CORS.Enabled {
		r.Use(middleware.CORS(cfg.CORS))
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Swagger文档：http://localhost:8080/swagger/index.html
	// 生产环境不暴露
	if cfg.Server.Mode != "release" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.Group("/api/v1")
	registerUserRoutes(v1, h.User, h.UserAdmin, auth)

	authorized := v1.Group("")
	authorized.Use(auth.RequireAuth())
	{
		// 收银台商品列表，员工可用
		authorized.GET("/products-for-shop", h.Product.List)

		sales := authorized.Group("/sales")
		{
			sales.POST("", h.Sale.PlaceSale)
			sales.GET("", h.Sale.ListSales)
			sales.GET("/:id", h.Sale.GetSale)
			sales.DELETE("/:id", h.Sale.CancelSale)
		}

		// 登记欠款只限管理员，查看/修改/删除在用例里校验本人或管理员
		debts := authorized.Group("/debts")
		{
			debts.POST("", auth.RequireAdmin(), h.Debt.Create)
			debts.GET("", h.Debt.List)
			debts.GET("/:id", h.Debt.Get)
			debts.PUT("/:id", h.Debt.Update)
			debts.DELETE("/:id", h.Debt.Delete)
		}

		admin := authorized.Group("")
		admin.Use(auth.RequireAdmin())
		{
			products := admin.Group("/products")
			{
				products.POST("", h.Product.Create)
				products.GET("", h.Product.List)
				products.GET("/:id", h.Product.Get)
				products.PUT("/:id", h.Product.Update)
				products.POST("/:id/restock", h.Product.Restock)
				products.DELETE("/:id", h.Product.Delete)
			}

			categories := admin.Group("/categories")
			{
				categories.POST("", h.Category.Create)
				categories.GET("", h.Category.List)
				categories.GET("/:id", h.Category.Get)
				categories.PUT("/:id", h.Category.Update)
				categories.DELETE("/:id", h.Category.Delete)
			}

			providers := admin.Group("/providers")
			{
				providers.POST("", h.Provider.Create)
				providers.GET("", h.Provider.List)
				providers.GET("/:id", h.Provider.Get)
				providers.PUT("/:id", h.Provider.Update)
				providers.DELETE("/:id", h.Provider.Delete)
			}

			reports := admin.Group("/reports")
			{
				reports.GET("/statistics", h.Report.Statistics)
				reports.GET("/:kind", h.Report.Export)
			}
		}
	}

	return r
}

func registerUserRoutes(v1 *gin.RouterGroup, h *handler.UserHandler, admin *handler.UserAdminHandler, auth *middleware.AuthMiddleware) {
	users := v1.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/refresh", h.Refresh)

		users.POST("/logout", auth.RequireAuth(), h.Logout)
		users.GET("/me", auth.RequireAuth(), h.Profile)
	}

	// 用户管理：/users/me 等静态路由优先于 /users/:id
	managed := v1.Group("/users")
	managed.Use(auth.RequireAuth(), auth.RequireAdmin())
	{
		managed.GET("", admin.List)
		managed.POST("", admin.Create)
		managed.GET("/:id", admin.Get)
		managed.PUT("/:id", admin.Update)
		managed.DELETE("/:id", admin.Delete)
	}
}
