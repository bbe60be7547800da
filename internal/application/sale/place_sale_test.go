package sale

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/pos-inventory/internal/domain/product"
	"github.com/xiebiao/pos-inventory/internal/domain/sale"
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

func TestPlaceSale(t *testing.T) {
	ctx := context.Background()

	t.Run("单个商品下单成功", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.seedProduct(t, "可乐", "2.00", 10)

		result, err := env.place.Execute(ctx, PlaceSaleRequest{
			UserID: 1,
			Items:  []PlaceSaleItem{{ProductID: a.ID, Quantity: 3}},
		})
		require.NoError(t, err)

		assert.NotZero(t, result.ID, "销售单ID应该大于0")
		assert.NotEmpty(t, result.SaleNo)
		assert.Equal(t, uint(1), result.UserID)
		assert.Equal(t, "6.00", result.Total, "总金额=2.00×3")
		require.Len(t, result.Items, 1)
		assert.Equal(t, "可乐", result.Items[0].ProductName)
		assert.Equal(t, "2.00", result.Items[0].UnitPrice)
		assert.Equal(t, "6.00", result.Items[0].Subtotal)
		assert.Equal(t, 7, env.stockOf(t, a.ID), "库存应扣减为7")

		t.Logf("✓ 下单成功,单号: %s", result.SaleNo)
	})

	t.Run("库存不足整单失败", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.seedProduct(t, "可乐", "2.00", 2)

		_, err := env.place.Execute(ctx, PlaceSaleRequest{
			UserID: 1,
			Items:  []PlaceSaleItem{{ProductID: a.ID, Quantity: 5}},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, product.ErrInsufficientStock))

		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "InsufficientStock", appErr.Kind())
		shortage, ok := appErr.Details.(product.StockShortage)
		require.True(t, ok, "错误详情应为StockShortage")
		assert.Equal(t, a.ID, shortage.ProductID)
		assert.Equal(t, "可乐", shortage.ProductName)
		assert.Equal(t, 5, shortage.Requested)
		assert.Equal(t, 2, shortage.Available)

		assert.Equal(t, 2, env.stockOf(t, a.ID), "库存不应变化")
		assert.Zero(t, env.saleCount(t))
	})

	t.Run("后续商品失败时回滚前面的扣减", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.seedProduct(t, "可乐", "2.00", 5)
		b := env.seedProduct(t, "雪碧", "3.00", 0)

		_, err := env.place.Execute(ctx, PlaceSaleRequest{
			UserID: 1,
			Items: []PlaceSaleItem{
				{ProductID: a.ID, Quantity: 1},
				{ProductID: b.ID, Quantity: 1},
			},
		})
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		shortage, ok := appErr.Details.(product.StockShortage)
		require.True(t, ok)
		assert.Equal(t, b.ID, shortage.ProductID, "失败的应该是B")

		assert.Equal(t, 5, env.stockOf(t, a.ID), "A的扣减应被回滚")
		assert.Equal(t, 0, env.stockOf(t, b.ID))
		assert.Zero(t, env.saleCount(t))
	})

	t.Run("明细为空", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.place.Execute(ctx, PlaceSaleRequest{UserID: 1})
		assert.True(t, errors.Is(err, sale.ErrEmptyItemList))
		assert.Equal(t, "EmptyItemList", apperrors.GetAppError(err).Kind())
	})

	t.Run("数量非法不触碰库存", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.seedProduct(t, "可乐", "2.00", 5)

		for _, qty := range []int{0, -1} {
			_, err := env.place.Execute(ctx, PlaceSaleRequest{
				UserID: 1,
				Items: []PlaceSaleItem{
					{ProductID: a.ID, Quantity: 1},
					{ProductID: a.ID, Quantity: qty},
				},
			})
			assert.True(t, errors.Is(err, sale.ErrInvalidQuantity), "数量%d应被拒绝", qty)
		}
		assert.Equal(t, 5, env.stockOf(t, a.ID))
	})

	t.Run("商品不存在", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.seedProduct(t, "可乐", "2.00", 5)

		_, err := env.place.Execute(ctx, PlaceSaleRequest{
			UserID: 1,
			Items: []PlaceSaleItem{
				{ProductID: a.ID, Quantity: 2},
				{ProductID: 9999, Quantity: 1},
			},
		})
		assert.True(t, errors.Is(err, product.ErrProductNotFound))
		assert.Equal(t, map[string]uint{"product_id": 9999}, apperrors.GetAppError(err).Details)
		assert.Equal(t, 5, env.stockOf(t, a.ID))
	})

	t.Run("已下架商品不能销售", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.seedProduct(t, "可乐", "2.00", 5)
		require.NoError(t, env.productRepo.Delete(ctx, a.ID))

		_, err := env.place.Execute(ctx, PlaceSaleRequest{
			UserID: 1,
			Items:  []PlaceSaleItem{{ProductID: a.ID, Quantity: 1}},
		})
		assert.True(t, errors.Is(err, product.ErrProductNotFound))
	})

	t.Run("同一商品多次出现按累计数量校验", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.seedProduct(t, "可乐", "2.00", 5)

		_, err := env.place.Execute(ctx, PlaceSaleRequest{
			UserID: 1,
			Items: []PlaceSaleItem{
				{ProductID: a.ID, Quantity: 3},
				{ProductID: a.ID, Quantity: 3},
			},
		})
		require.Error(t, err)
		shortage := apperrors.GetAppError(err).Details.(product.StockShortage)
		assert.Equal(t, 2, shortage.Available, "第二项看到的是第一项扣减后的库存")
		assert.Equal(t, 5, env.stockOf(t, a.ID))

		result, err := env.place.Execute(ctx, PlaceSaleRequest{
			UserID: 1,
			Items: []PlaceSaleItem{
				{ProductID: a.ID, Quantity: 3},
				{ProductID: a.ID, Quantity: 2},
			},
		})
		require.NoError(t, err)
		assert.Len(t, result.Items, 2, "明细不合并")
		assert.Equal(t, "10.00", result.Total)
		assert.Equal(t, 0, env.stockOf(t, a.ID))
	})

	t.Run("明细保持提交顺序", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.seedProduct(t, "可乐", "2.00", 10)
		b := env.seedProduct(t, "雪碧", "3.50", 10)
		c := env.seedProduct(t, "矿泉水", "1.25", 10)

		result, err := env.place.Execute(ctx, PlaceSaleRequest{
			UserID: 2,
			Items: []PlaceSaleItem{
				{ProductID: c.ID, Quantity: 4},
				{ProductID: a.ID, Quantity: 1},
				{ProductID: b.ID, Quantity: 2},
			},
		})
		require.NoError(t, err)

		stored, err := env.saleRepo.FindByID(ctx, result.ID)
		require.NoError(t, err)
		require.Len(t, stored.Items, 3)
		assert.Equal(t, c.ID, stored.Items[0].ProductID)
		assert.Equal(t, a.ID, stored.Items[1].ProductID)
		assert.Equal(t, b.ID, stored.Items[2].ProductID)
		assert.True(t, stored.IsReconciled(), "总金额应等于明细之和")
		assert.True(t, stored.Total.Equal(decimal.RequireFromString("14.00")), "5.00+2.00+7.00, got %s", stored.Total)
	})

	t.Run("发布下单事件", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.seedProduct(t, "可乐", "2.00", 10)

		result, err := env.place.Execute(ctx, PlaceSaleRequest{
			UserID: 1,
			Items:  []PlaceSaleItem{{ProductID: a.ID, Quantity: 2}},
		})
		require.NoError(t, err)

		events := env.publisher.published()
		require.Len(t, events, 1)
		assert.Equal(t, RoutingKeySalePlaced, events[0].routingKey)
		assert.Equal(t, result.ID, events[0].event.SaleID)
		assert.Equal(t, "4.00", events[0].event.Total)
	})

	t.Run("事件发布失败不影响下单", func(t *testing.T) {
		env := newTestEnv(t)
		env.publisher.err = errors.New("broker unavailable")
		a := env.seedProduct(t, "可乐", "2.00", 10)

		_, err := env.place.Execute(ctx, PlaceSaleRequest{
			UserID: 1,
			Items:  []PlaceSaleItem{{ProductID: a.ID, Quantity: 2}},
		})
		require.NoError(t, err)
		assert.Equal(t, 8, env.stockOf(t, a.ID))
	})
}

// TestPlaceSale_PersistenceFailure 销售单写入失败时库存扣减全部回滚
func TestPlaceSale_PersistenceFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.seedProduct(t, "可乐", "2.00", 10)
	b := env.seedProduct(t, "雪碧", "3.00", 10)
	env.failSaleInserts(t)

	_, err := env.place.Execute(ctx, PlaceSaleRequest{
		UserID: 1,
		Items: []PlaceSaleItem{
			{ProductID: a.ID, Quantity: 3},
			{ProductID: b.ID, Quantity: 4},
		},
	})
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, "PersistenceError", appErr.Kind())
	assert.Equal(t, apperrors.ErrCodeDatabaseError, appErr.Code)

	assert.Equal(t, 10, env.stockOf(t, a.ID), "扣减应被回滚")
	assert.Equal(t, 10, env.stockOf(t, b.ID), "扣减应被回滚")
	assert.Empty(t, env.publisher.published(), "失败时不发布事件")
}

// TestPlaceSale_TxTimeout 事务超时报告为存储错误
func TestPlaceSale_TxTimeout(t *testing.T) {
	t.Run("开始前已超时", func(t *testing.T) {
		env := newTestEnvWithTimeout(t, time.Nanosecond)
		a := env.seedProduct(t, "可乐", "2.00", 10)

		_, err := env.place.Execute(context.Background(), PlaceSaleRequest{
			UserID: 1,
			Items:  []PlaceSaleItem{{ProductID: a.ID, Quantity: 1}},
		})
		require.Error(t, err)
		assert.Equal(t, "PersistenceError", apperrors.GetAppError(err).Kind())
		assert.Equal(t, 10, env.stockOf(t, a.ID))
	})

	t.Run("扣减之后超时全部回滚", func(t *testing.T) {
		env := newTestEnvWithTimeout(t, 100*time.Millisecond)
		a := env.seedProduct(t, "可乐", "2.00", 10)
		b := env.seedProduct(t, "雪碧", "3.00", 10)
		env.stallSaleInserts(t)

		_, err := env.place.Execute(context.Background(), PlaceSaleRequest{
			UserID: 1,
			Items: []PlaceSaleItem{
				{ProductID: a.ID, Quantity: 3},
				{ProductID: b.ID, Quantity: 4},
			},
		})
		require.Error(t, err)

		appErr := apperrors.GetAppError(err)
		assert.Equal(t, "PersistenceError", appErr.Kind())
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		assert.Equal(t, 10, env.stockOf(t, a.ID), "超时前的扣减应被回滚")
		assert.Equal(t, 10, env.stockOf(t, b.ID), "超时前的扣减应被回滚")
		assert.Zero(t, env.saleCount(t))
		assert.Empty(t, env.publisher.published())
		t.Logf("✓ 超时后库存恢复: %s", appErr.Message)
	})
}

// TestPlaceSale_PriceSnapshot 改价不影响历史销售单
func TestPlaceSale_PriceSnapshot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.seedProduct(t, "可乐", "2.00", 10)

	result, err := env.place.Execute(ctx, PlaceSaleRequest{
		UserID: 1,
		Items:  []PlaceSaleItem{{ProductID: a.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	p, err := env.productRepo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	require.NoError(t, p.UpdatePrice(decimal.RequireFromString("9.99")))
	p.UpdateInfo("新可乐", "", nil, nil)
	require.NoError(t, env.productRepo.Update(ctx, p))

	stored, err := env.saleRepo.FindByID(ctx, result.ID)
	require.NoError(t, err)
	assert.True(t, stored.Items[0].UnitPrice.Equal(decimal.RequireFromString("2.00")), "单价快照不变")
	assert.Equal(t, "可乐", stored.Items[0].ProductName, "名称快照不变")
	assert.True(t, stored.Total.Equal(decimal.RequireFromString("6.00")))
}

// TestPlaceSale_NoOversell 并发抢购不超卖
func TestPlaceSale_NoOversell(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.seedProduct(t, "限量款", "99.00", 10)

	const buyers = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := env.place.Execute(ctx, PlaceSaleRequest{
				UserID: userID,
				Items:  []PlaceSaleItem{{ProductID: a.ID, Quantity: 1}},
			})

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, product.ErrInsufficientStock) {
				rejected++
			} else {
				t.Errorf("unexpected error: %v", err)
			}
		}(uint(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded, "成功数等于初始库存")
	assert.Equal(t, buyers-10, rejected)
	assert.Equal(t, 0, env.stockOf(t, a.ID), "库存不能为负")
	assert.Equal(t, int64(10), env.saleCount(t))

	t.Logf("✓ %d个请求,成功%d,库存不足%d", buyers, succeeded, rejected)
}
