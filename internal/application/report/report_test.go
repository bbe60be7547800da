package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	appsale "github.com/xiebiao/pos-inventory/internal/application/sale"
	"github.com/xiebiao/pos-inventory/internal/domain/category"
	"github.com/xiebiao/pos-inventory/internal/domain/debt"
	"github.com/xiebiao/pos-inventory/internal/domain/product"
	"github.com/xiebiao/pos-inventory/internal/domain/sale"
	"github.com/xiebiao/pos-inventory/internal/domain/user"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/config"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/persistence/redis"
)

type reportEnv struct {
	redis        *miniredis.Miniredis
	productRepo  product.Repository
	saleRepo     sale.Repository
	debtRepo     debt.Repository
	userRepo     user.Repository
	categoryRepo category.Repository
	cache        *redis.StatsCache
	place        *appsale.PlaceSaleUseCase
	statistics   *StatisticsUseCase
	export       *ExportUseCase
	invalidator  *CacheInvalidator
}

func newReportEnv(t *testing.T) *reportEnv {
	t.Helper()

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", TxTimeout: time.Second},
		Redis:    config.RedisConfig{StatsTTL: time.Minute},
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

	env := &reportEnv{
		redis:       mr,
		productRepo: mysql.NewProductRepository(db),
		saleRepo:    mysql.NewSaleRepository(db),
		debtRepo:    mysql.NewDebtRepository(db),
		userRepo:    mysql.NewUserRepository(db),
		cache:       redis.NewStatsCache(client, cfg),
	}
	env.invalidator = NewCacheInvalidator(env.cache)
	env.place = appsale.NewPlaceSaleUseCase(env.saleRepo, env.productRepo, mysql.NewTxManager(db, cfg), env.invalidator)
	env.categoryRepo = mysql.NewCategoryRepository(db)
	env.statistics = NewStatisticsUseCase(env.productRepo, env.saleRepo, env.debtRepo, env.userRepo,
		env.categoryRepo, mysql.NewProviderRepository(db), env.cache)
	env.export = NewExportUseCase(env.productRepo, env.saleRepo, env.debtRepo, env.statistics)
	return env
}

// seed 一个分类、两个商品、一个员工、一张销售单、一笔欠款
func (e *reportEnv) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	u := user.NewUser("clerk@shop.com", "hash", "小王", user.RoleEmployee)
	require.NoError(t, e.userRepo.Create(ctx, u))

	drinks, err := category.NewCategory("饮料")
	require.NoError(t, err)
	require.NoError(t, e.categoryRepo.Create(ctx, drinks))

	cola, err := product.NewProduct("可乐", "", decimal.RequireFromString("2.00"), 10, &drinks.ID, nil, 1)
	require.NoError(t, err)
	require.NoError(t, e.productRepo.Create(ctx, cola))
	water, err := product.NewProduct("矿泉水", "", decimal.RequireFromString("1.50"), 20, &drinks.ID, nil, 1)
	require.NoError(t, err)
	require.NoError(t, e.productRepo.Create(ctx, water))

	_, err = e.place.Execute(ctx, appsale.PlaceSaleRequest{
		UserID: u.ID,
		Items: []appsale.PlaceSaleItem{
			{ProductID: cola.ID, Quantity: 3},
			{ProductID: water.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	d, err := debt.NewDebt(u.ID, decimal.RequireFromString("50"), "预支")
	require.NoError(t, err)
	require.NoError(t, e.debtRepo.Create(ctx, d))
}

func TestStatistics(t *testing.T) {
	ctx := context.Background()
	env := newReportEnv(t)
	env.seed(t)

	stats, err := env.statistics.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Products)
	assert.Equal(t, int64(25), stats.TotalStock, "10-3 + 20-2")
	assert.Equal(t, int64(1), stats.Sales)
	assert.Equal(t, "9.00", stats.SalesAmount)
	assert.Equal(t, int64(1), stats.Debts)
	assert.Equal(t, "50.00", stats.OutstandingDebt)
	assert.Equal(t, int64(1), stats.Users)
	assert.Equal(t, int64(1), stats.Categories)
	assert.Equal(t, int64(0), stats.Providers)

	t.Run("命中缓存", func(t *testing.T) {
		u := user.NewUser("new@shop.com", "hash", "新人", user.RoleEmployee)
		require.NoError(t, env.userRepo.Create(ctx, u))

		cached, err := env.statistics.Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), cached.Users, "缓存期内返回旧值")
	})

	t.Run("销售事件使缓存失效", func(t *testing.T) {
		body, err := json.Marshal(appsale.Event{SaleID: 1})
		require.NoError(t, err)
		require.NoError(t, env.invalidator.Handle(ctx, appsale.RoutingKeySalePlaced, body))

		fresh, err := env.statistics.Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), fresh.Users)
	})

	t.Run("毒消息直接丢弃", func(t *testing.T) {
		assert.NoError(t, env.invalidator.Handle(ctx, appsale.RoutingKeySalePlaced, []byte("not json")))
	})

	t.Run("缓存不可用时仍确认消息", func(t *testing.T) {
		body, err := json.Marshal(appsale.Event{SaleID: 1})
		require.NoError(t, err)

		env.redis.SetError("connection refused")
		defer env.redis.SetError("")

		assert.NoError(t, env.invalidator.Handle(ctx, appsale.RoutingKeySalePlaced, body), "返回错误会导致消息反复重投")
		env.invalidator.InvalidateStatistics(ctx, "product.created")
	})

	t.Run("直接失效", func(t *testing.T) {
		_, err := env.statistics.Execute(ctx)
		require.NoError(t, err)
		require.True(t, env.redis.Exists("stats:statistics"))

		env.invalidator.InvalidateStatistics(ctx, "product.created")
		assert.False(t, env.redis.Exists("stats:statistics"), "统计缓存已删除")
	})
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	env := newReportEnv(t)
	env.seed(t)

	open := func(t *testing.T, file *File) *excelize.File {
		t.Helper()
		f, err := excelize.OpenReader(bytes.NewReader(file.Content))
		require.NoError(t, err)
		t.Cleanup(func() { _ = f.Close() })
		return f
	}

	t.Run("销售报表", func(t *testing.T) {
		file, err := env.export.Execute(ctx, KindSales)
		require.NoError(t, err)
		assert.Regexp(t, `^sales-\d{14}\.xlsx$`, file.Name)

		f := open(t, file)
		assert.Equal(t, []string{sheetSales, sheetSaleItems}, f.GetSheetList())

		rows, err := f.GetRows(sheetSales)
		require.NoError(t, err)
		require.Len(t, rows, 2, "表头+1张销售单")
		assert.Equal(t, "单号", rows[0][1])
		assert.Equal(t, "9", rows[1][4])

		items, err := f.GetRows(sheetSaleItems)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "可乐", items[1][2])
		assert.Equal(t, "矿泉水", items[2][2], "明细保持下单顺序")
	})

	t.Run("商品报表", func(t *testing.T) {
		file, err := env.export.Execute(ctx, KindProducts)
		require.NoError(t, err)

		rows, err := open(t, file).GetRows(sheetProducts)
		require.NoError(t, err)
		require.Len(t, rows, 3)
	})

	t.Run("综合报表", func(t *testing.T) {
		file, err := env.export.Execute(ctx, KindGeneral)
		require.NoError(t, err)

		f := open(t, file)
		assert.Equal(t, []string{sheetSummary, sheetSales, sheetSaleItems, sheetProducts, sheetDebts}, f.GetSheetList())

		summary, err := f.GetRows(sheetSummary)
		require.NoError(t, err)
		assert.Equal(t, []string{"销售总额", "9.00"}, summary[4])
	})

	t.Run("未知类型", func(t *testing.T) {
		_, err := env.export.Execute(ctx, "pdf")
		assert.True(t, errors.Is(err, ErrUnknownReport))
	})
}
