//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后执行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	appcatalog "github.com/xiebiao/pos-inventory/internal/application/catalog"
	appdebt "github.com/xiebiao/pos-inventory/internal/application/debt"
	appproduct "github.com/xiebiao/pos-inventory/internal/application/product"
	appreport "github.com/xiebiao/pos-inventory/internal/application/report"
	appsale "github.com/xiebiao/pos-inventory/internal/application/sale"
	appuser "github.com/xiebiao/pos-inventory/internal/application/user"
	"github.com/xiebiao/pos-inventory/internal/domain/product"
	"github.com/xiebiao/pos-inventory/internal/domain/user"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/config"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/pos-inventory/internal/interface/http/handler"
	"github.com/xiebiao/pos-inventory/internal/interface/http/middleware"
	"github.com/xiebiao/pos-inventory/internal/interface/http/router"
)

// infrastructureSet 基础设施层依赖：数据库、Redis、消息队列
var infrastructureSet = wire.NewSet(
	mysql.NewDB,
	redis.NewClient,
	provideSessionStore,
	redis.NewStatsCache,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(appreport.Cache), new(*redis.StatsCache)),
	provideEventPublisher,
	provideSaleEventConsumer,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewProductRepository,
	mysql.NewSaleRepository,
	mysql.NewDebtRepository,
	mysql.NewCategoryRepository,
	mysql.NewProviderRepository,
	mysql.NewTxManager,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
	product.NewService,
)

// applicationSet 应用层用例
var applicationSet = wire.NewSet(
	provideRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewGetProfileUseCase,
	appuser.NewUserAdminUseCase,

	appproduct.NewCatalogRefs,
	appproduct.NewCreateProductUseCase,
	appproduct.NewGetProductUseCase,
	appproduct.NewListProductsUseCase,
	appproduct.NewUpdateProductUseCase,
	appproduct.NewRestockUseCase,
	appproduct.NewDeleteProductUseCase,

	appsale.NewPlaceSaleUseCase,
	appsale.NewCancelSaleUseCase,
	appsale.NewGetSaleUseCase,
	appsale.NewListSalesUseCase,

	appdebt.NewDebtUseCase,

	appcatalog.NewCategoryUseCase,
	appcatalog.NewProviderUseCase,

	appreport.NewStatisticsUseCase,
	appreport.NewExportUseCase,
	appreport.NewCacheInvalidator,

	// 增删改后统一由CacheInvalidator失效统计缓存
	wire.Bind(new(appproduct.StatsInvalidator), new(*appreport.CacheInvalidator)),
	wire.Bind(new(appdebt.StatsInvalidator), new(*appreport.CacheInvalidator)),
	wire.Bind(new(appuser.StatsInvalidator), new(*appreport.CacheInvalidator)),
	wire.Bind(new(appcatalog.StatsInvalidator), new(*appreport.CacheInvalidator)),
)

// interfaceSet 认证中间件、HTTP处理器、路由
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewProductHandler,
	handler.NewSaleHandler,
	handler.NewDebtHandler,
	handler.NewReportHandler,
	handler.NewCategoryHandler,
	handler.NewProviderHandler,
	handler.NewUserAdminHandler,
	provideHandlers,
	router.New,
)

// InitializeApp 初始化整个应用
// cfg与日志器在main中先行创建（日志与链路追踪需要早于依赖注入初始化）
func InitializeApp(cfg *config.Config, log *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		newApp,
	)
	return nil, nil, nil
}
