package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

func newCola(t *testing.T, stock int) *Product {
	t.Helper()
	p, err := NewProduct("可乐", "", decimal.RequireFromString("2.50"), stock, nil, nil, 1)
	require.NoError(t, err)
	p.ID = 42
	return p
}

func TestNewProduct(t *testing.T) {
	// 三个错误共用参数错误码,用Same区分具体原因
	_, err := NewProduct("", "", decimal.Zero, 0, nil, nil, 1)
	assert.Same(t, ErrInvalidName, err)

	_, err = NewProduct("可乐", "", decimal.RequireFromString("-0.01"), 0, nil, nil, 1)
	assert.Same(t, ErrInvalidPrice, err)

	_, err = NewProduct("可乐", "", decimal.Zero, -1, nil, nil, 1)
	assert.Same(t, ErrInvalidStock, err)

	p, err := NewProduct("赠品", "", decimal.Zero, 0, nil, nil, 1)
	require.NoError(t, err, "零价格、零库存合法")
	assert.True(t, p.UnitPrice.IsZero())
}

func TestDecrStock(t *testing.T) {
	t.Run("扣减到0", func(t *testing.T) {
		p := newCola(t, 5)
		require.NoError(t, p.DecrStock(5))
		assert.Equal(t, 0, p.Stock)
	})

	t.Run("库存不足携带详情", func(t *testing.T) {
		p := newCola(t, 2)
		err := p.DecrStock(3)
		require.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 2, p.Stock, "失败不修改库存")

		appErr := apperrors.GetAppError(err)
		shortage, ok := appErr.Details.(StockShortage)
		require.True(t, ok, "详情类型应为StockShortage")
		assert.Equal(t, StockShortage{ProductID: 42, ProductName: "可乐", Requested: 3, Available: 2, Shortfall: 1}, shortage)
	})

	t.Run("数量非正", func(t *testing.T) {
		p := newCola(t, 2)
		assert.ErrorIs(t, p.DecrStock(0), ErrInvalidQuantity)
		assert.ErrorIs(t, p.DecrStock(-1), ErrInvalidQuantity)
	})
}

func TestIncrStock(t *testing.T) {
	p := newCola(t, 10)
	require.NoError(t, p.IncrStock(1000))
	assert.Equal(t, 1010, p.Stock, "恢复库存不设上限")
	assert.ErrorIs(t, p.IncrStock(0), ErrInvalidQuantity)
}

func TestUpdatePrice(t *testing.T) {
	p := newCola(t, 1)
	require.NoError(t, p.UpdatePrice(decimal.RequireFromString("3.20")))
	assert.Equal(t, "3.20", p.UnitPrice.StringFixed(2))
	assert.ErrorIs(t, p.UpdatePrice(decimal.RequireFromString("-1")), ErrInvalidPrice)
}

func TestUpdateInfo(t *testing.T) {
	categoryID, providerID := uint(3), uint(5)
	p, err := NewProduct("可乐", "", decimal.RequireFromString("2.50"), 1, &categoryID, &providerID, 1)
	require.NoError(t, err)
	p.CategoryName = "饮料"

	p.UpdateInfo("", "", nil, nil)
	require.NotNil(t, p.CategoryID)
	assert.EqualValues(t, 3, *p.CategoryID, "nil不修改")

	other := uint(4)
	p.UpdateInfo("", "", &other, nil)
	assert.EqualValues(t, 4, *p.CategoryID)
	assert.Empty(t, p.CategoryName, "换分类后名称待重新加载")
	other = 7
	assert.EqualValues(t, 4, *p.CategoryID, "实体不持有调用方的指针")

	zero := uint(0)
	p.UpdateInfo("", "", &zero, &zero)
	assert.Nil(t, p.CategoryID, "0表示清除")
	assert.Nil(t, p.ProviderID)
}
