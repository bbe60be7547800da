package sale

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewSale(t *testing.T) {
	t.Run("总金额等于明细小计之和", func(t *testing.T) {
		s, err := NewSale("S1", 7, []LineItem{
			{ProductID: 1, Quantity: 3, UnitPrice: price("0.10")},
			{ProductID: 2, Quantity: 2, UnitPrice: price("19.99")},
		})
		require.NoError(t, err)

		assert.True(t, s.Total.Equal(price("40.28")), "0.30 + 39.98, got %s", s.Total)
		assert.True(t, s.IsReconciled())
		assert.EqualValues(t, 7, s.UserID)
	})

	t.Run("空明细", func(t *testing.T) {
		_, err := NewSale("S1", 7, nil)
		assert.ErrorIs(t, err, ErrEmptyItemList)
	})

	t.Run("数量非正", func(t *testing.T) {
		_, err := NewSale("S1", 7, []LineItem{{ProductID: 1, Quantity: 0, UnitPrice: price("1")}})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("篡改总金额后不再对账", func(t *testing.T) {
		s, err := NewSale("S1", 7, []LineItem{{ProductID: 1, Quantity: 1, UnitPrice: price("5")}})
		require.NoError(t, err)

		s.Total = price("4.99")
		assert.False(t, s.IsReconciled())
	})
}

func TestQuantityByProduct(t *testing.T) {
	s, err := NewSale("S1", 1, []LineItem{
		{ProductID: 1, Quantity: 2, UnitPrice: price("1")},
		{ProductID: 2, Quantity: 1, UnitPrice: price("1")},
		{ProductID: 1, Quantity: 3, UnitPrice: price("1")},
	})
	require.NoError(t, err)

	assert.Equal(t, map[uint]int{1: 5, 2: 1}, s.QuantityByProduct())
	assert.Len(t, s.Items, 3, "重复商品不合并明细")
}

func TestGenerateSaleNo(t *testing.T) {
	pattern := regexp.MustCompile(`^S\d{14}[0-9a-f]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		no := GenerateSaleNo()
		require.Regexp(t, pattern, no)
		require.False(t, seen[no], "单号重复: %s", no)
		seen[no] = true
	}
	t.Logf("✓ 1000个单号无重复")
}
