package main

import (
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appreport "github.com/xiebiao/pos-inventory/internal/application/report"
	appsale "github.com/xiebiao/pos-inventory/internal/application/sale"
	appuser "github.com/xiebiao/pos-inventory/internal/application/user"
	"github.com/xiebiao/pos-inventory/internal/domain/user"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/config"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/pos-inventory/internal/interface/http/handler"
	"github.com/xiebiao/pos-inventory/internal/interface/http/router"
	"github.com/xiebiao/pos-inventory/pkg/jwt"
	"github.com/xiebiao/pos-inventory/pkg/mq"
)

// 报表缓存失效队列，绑定全部销售事件
const (
	reportCacheQueue   = "pos.report-cache"
	saleEventsBindings = "sale.*"
)

// provideJWTManager 从配置创建JWT管理器
// Wire无法自动从Config提取参数，所以需要手动编写Provider
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideRegisterUseCase 注入引导管理员邮箱
func provideRegisterUseCase(cfg *config.Config, userService user.Service, stats appuser.StatsInvalidator) *appuser.RegisterUseCase {
	return appuser.NewRegisterUseCase(userService, cfg.Auth.BootstrapAdminEmail, stats)
}

// provideEventPublisher 销售事件发布器
// 启用MQ时事件发往RabbitMQ，由消费者失效报表缓存；
// 未启用时直接在进程内失效缓存
func provideEventPublisher(
	cfg *config.Config,
	log *zap.Logger,
	invalidator *appreport.CacheInvalidator,
) (appsale.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return invalidator, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := publisher.Close(); err != nil {
			log.Warn("关闭消息发布者失败", zap.Error(err))
		}
	}
	return appsale.NewMQEventPublisher(publisher, log), cleanup, nil
}

// provideSaleEventConsumer 未启用MQ时返回nil
func provideSaleEventConsumer(cfg *config.Config, log *zap.Logger) (*mq.Consumer, func(), error) {
	if !cfg.MQ.Enabled {
		return nil, func() {}, nil
	}

	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		mq.ExchangeTopic,
		reportCacheQueue,
		[]string{saleEventsBindings},
		log,
	)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := consumer.Close(); err != nil {
			log.Warn("关闭消息消费者失败", zap.Error(err))
		}
	}
	return consumer, cleanup, nil
}

func provideHandlers(
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	saleHandler *handler.SaleHandler,
	debtHandler *handler.DebtHandler,
	reportHandler *handler.ReportHandler,
	categoryHandler *handler.CategoryHandler,
	providerHandler *handler.ProviderHandler,
	userAdminHandler *handler.UserAdminHandler,
) router.Handlers {
	return router.Handlers{
		User:      userHandler,
		Product:   productHandler,
		Sale:      saleHandler,
		Debt:      debtHandler,
		Report:    reportHandler,
		Category:  categoryHandler,
		Provider:  providerHandler,
		UserAdmin: userAdminHandler,
	}
}
