package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appreport "github.com/xiebiao/pos-inventory/internal/application/report"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/config"
	"github.com/xiebiao/pos-inventory/pkg/mq"
)

// shutdownTimeout 优雅关闭等待进行中请求的最长时间
const shutdownTimeout = 10 * time.Second

// App 组装完成的应用
type App struct {
	cfg         *config.Config
	log         *zap.Logger
	engine      *gin.Engine
	consumer    *mq.Consumer // 未启用MQ时为nil
	invalidator *appreport.CacheInvalidator
}

func newApp(
	cfg *config.Config,
	log *zap.Logger,
	engine *gin.Engine,
	consumer *mq.Consumer,
	invalidator *appreport.CacheInvalidator,
) *App {
	return &App{
		cfg:         cfg,
		log:         log,
		engine:      engine,
		consumer:    consumer,
		invalidator: invalidator,
	}
}

// Run 启动HTTP服务与事件消费者，ctx取消后优雅关闭
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      a.engine,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	if a.consumer != nil {
		go func() {
			if err := a.consumer.Consume(ctx, a.invalidator.Handle); err != nil {
				a.log.Error("销售事件消费中断", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("服务启动", zap.String("addr", srv.Addr), zap.String("mode", a.cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
