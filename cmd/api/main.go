package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	_ "github.com/xiebiao/pos-inventory/docs"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/config"
	"github.com/xiebiao/pos-inventory/pkg/logger"
	"github.com/xiebiao/pos-inventory/pkg/tracing"
)

// 一次性管理任务：创建管理员后退出
var (
	createAdminFlag = flag.Bool("create-admin", false, "Create an admin account and exit")
	adminNameFlag   = flag.String("admin-name", "", "Admin name (with -create-admin)")
	adminEmailFlag  = flag.String("admin-email", "", "Admin email (with -create-admin)")
	adminPassFlag   = flag.String("admin-password", "", "Admin password (with -create-admin)")
)

// @title           POS Inventory API
// @version         1.0
// @description     收银与库存管理服务：下单扣库存、撤单归还库存、员工欠款与报表
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     格式: Bearer {token}
func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zl, err := logger.New(cfg.Log.Logger())
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	restore := logger.ReplaceGlobal(zl)
	defer restore()

	zl.Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("redis", cfg.Redis.Addr()),
		zap.Bool("mq", cfg.MQ.Enabled),
	)

	if *createAdminFlag {
		if _, err := createAdmin(context.Background(), cfg, zl, *adminNameFlag, *adminEmailFlag, *adminPassFlag); err != nil {
			zl.Fatal("创建管理员失败", zap.Error(err))
		}
		return
	}

	// 3. 链路追踪（可选）
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			zl.Fatal("初始化链路追踪失败", zap.Error(err))
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				zl.Warn("关闭链路追踪失败", zap.Error(err))
			}
		}()
	}

	// 4. 依赖注入（wire生成）
	app, cleanup, err := InitializeApp(cfg, zl)
	if err != nil {
		zl.Fatal("初始化应用失败", zap.Error(err))
	}
	defer cleanup()

	// 5. 启动服务，Ctrl+C / SIGTERM 优雅退出
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		zl.Error("服务异常退出", zap.Error(err))
	}
	zl.Info("服务已关闭")
}
