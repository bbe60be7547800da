package sale

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/pos-inventory/internal/domain/product"
	"github.com/xiebiao/pos-inventory/internal/domain/sale"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/config"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/persistence/mysql"
)

// testEnv 基于内存SQLite的完整引擎环境
type testEnv struct {
	db          *gorm.DB
	productRepo product.Repository
	saleRepo    sale.Repository
	txManager   *mysql.TxManager
	publisher   *recordingPublisher
	place       *PlaceSaleUseCase
	cancel      *CancelSaleUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return openTestEnv(t, ":memory:", 5*time.Second)
}

// newTestEnvWithTimeout 文件库环境
// 超时中断的事务会让database/sql丢弃连接,内存库会随之清空,所以这里用临时文件
func newTestEnvWithTimeout(t *testing.T, txTimeout time.Duration) *testEnv {
	t.Helper()
	return openTestEnv(t, filepath.Join(t.TempDir(), "pos.db"), txTimeout)
}

func openTestEnv(t *testing.T, path string, txTimeout time.Duration) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: path,
			TxTimeout:  txTimeout,
		},
	}
	db, err := mysql.NewDB(cfg, zap.NewNop())
	require.NoError(t, err, "创建测试数据库失败")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		db:          db,
		productRepo: mysql.NewProductRepository(db),
		saleRepo:    mysql.NewSaleRepository(db),
		txManager:   mysql.NewTxManager(db, cfg),
		publisher:   &recordingPublisher{},
	}
	env.place = NewPlaceSaleUseCase(env.saleRepo, env.productRepo, env.txManager, env.publisher)
	env.cancel = NewCancelSaleUseCase(env.saleRepo, env.productRepo, env.txManager, env.publisher)
	return env
}

// seedProduct 创建商品
func (e *testEnv) seedProduct(t *testing.T, name, price string, stock int) *product.Product {
	t.Helper()

	p, err := product.NewProduct(name, "", decimal.RequireFromString(price), stock, nil, nil, 1)
	require.NoError(t, err)
	require.NoError(t, e.productRepo.Create(context.Background(), p))
	return p
}

// stockOf 读取当前库存
func (e *testEnv) stockOf(t *testing.T, id uint) int {
	t.Helper()

	p, err := e.productRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

// saleCount 销售单总数
func (e *testEnv) saleCount(t *testing.T) int64 {
	t.Helper()

	count, _, err := e.saleRepo.Summary(context.Background())
	require.NoError(t, err)
	return count
}

// failSaleInserts 让sales表的INSERT失败,模拟存储故障
func (e *testEnv) failSaleInserts(t *testing.T) {
	t.Helper()

	err := e.db.Callback().Create().Before("gorm:create").Register("test:fail_sales", func(tx *gorm.DB) {
		if tx.Statement.Table == "sales" {
			_ = tx.AddError(errors.New("disk I/O error"))
		}
	})
	require.NoError(t, err)
}

// stallSaleInserts 让sales表的INSERT一直等到事务context结束,模拟写库卡住
// 此时库存扣减已经执行
func (e *testEnv) stallSaleInserts(t *testing.T) {
	t.Helper()

	err := e.db.Callback().Create().Before("gorm:create").Register("test:stall_sales", func(tx *gorm.DB) {
		if tx.Statement.Table != "sales" {
			return
		}
		ctx := tx.Statement.Context
		<-ctx.Done()
		_ = tx.AddError(ctx.Err())
	})
	require.NoError(t, err)
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

type publishedEvent struct {
	routingKey string
	event      Event
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{routingKey: routingKey, event: event})
	return nil
}

func (p *recordingPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}
