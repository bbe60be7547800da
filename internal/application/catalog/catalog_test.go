package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/pos-inventory/internal/domain/category"
	"github.com/xiebiao/pos-inventory/internal/domain/product"
	"github.com/xiebiao/pos-inventory/internal/domain/provider"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/config"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

type recordingStats struct {
	reasons []string
}

func (r *recordingStats) InvalidateStatistics(_ context.Context, reason string) {
	r.reasons = append(r.reasons, reason)
}

type catalogEnv struct {
	categories *CategoryUseCase
	providers  *ProviderUseCase
	products   product.Repository
	stats      *recordingStats
}

func newCatalogEnv(t *testing.T) *catalogEnv {
	t.Helper()

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", TxTimeout: time.Second},
	}
	db, err := mysql.NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	stats := &recordingStats{}
	return &catalogEnv{
		categories: NewCategoryUseCase(mysql.NewCategoryRepository(db), stats),
		providers:  NewProviderUseCase(mysql.NewProviderRepository(db), stats),
		products:   mysql.NewProductRepository(db),
		stats:      stats,
	}
}

func TestCategoryUseCase(t *testing.T) {
	ctx := context.Background()
	env := newCatalogEnv(t)

	drinks, err := env.categories.Create(ctx, "饮料")
	require.NoError(t, err)
	assert.Equal(t, []string{"category.created"}, env.stats.reasons)

	t.Run("名称唯一", func(t *testing.T) {
		_, err := env.categories.Create(ctx, "饮料")
		assert.True(t, errors.Is(err, category.ErrDuplicateName))
		assert.Equal(t, 409, apperrors.HTTPStatus(apperrors.GetAppError(err).Code))
	})

	t.Run("列表按名称排序", func(t *testing.T) {
		_, err := env.categories.Create(ctx, "酒水")
		require.NoError(t, err)
		_, err = env.categories.Create(ctx, "冷冻")
		require.NoError(t, err)

		list, err := env.categories.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		for i := 1; i < len(list); i++ {
			assert.LessOrEqual(t, list[i-1].Name, list[i].Name)
		}
	})

	t.Run("重命名", func(t *testing.T) {
		updated, err := env.categories.Update(ctx, drinks.ID, "软饮")
		require.NoError(t, err)
		assert.Equal(t, "软饮", updated.Name)

		_, err = env.categories.Update(ctx, drinks.ID, "")
		assert.True(t, errors.Is(err, category.ErrInvalidName))

		_, err = env.categories.Update(ctx, 999, "x")
		assert.True(t, errors.Is(err, category.ErrCategoryNotFound))
		assert.Equal(t, 404, apperrors.HTTPStatus(apperrors.GetAppError(err).Code))
	})

	t.Run("删除后商品变为未分类", func(t *testing.T) {
		p, err := product.NewProduct("可乐", "", decimal.RequireFromString("2.50"), 1, &drinks.ID, nil, 1)
		require.NoError(t, err)
		require.NoError(t, env.products.Create(ctx, p))

		require.NoError(t, env.categories.Delete(ctx, drinks.ID))
		assert.Equal(t, "category.deleted", env.stats.reasons[len(env.stats.reasons)-1])

		got, err := env.products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CategoryID)

		_, err = env.categories.Get(ctx, drinks.ID)
		assert.True(t, errors.Is(err, category.ErrCategoryNotFound))
		t.Logf("✓ 分类删除后商品保留: %s", got.Name)
	})
}

func TestProviderUseCase(t *testing.T) {
	ctx := context.Background()
	env := newCatalogEnv(t)

	created, err := env.providers.Create(ctx, CreateProviderRequest{Name: "华润", Phone: "021-1234", Email: "sales@crc.com"})
	require.NoError(t, err)
	assert.Equal(t, "sales@crc.com", created.Email)

	t.Run("邮箱格式与唯一", func(t *testing.T) {
		_, err := env.providers.Create(ctx, CreateProviderRequest{Name: "x", Email: "bad"})
		assert.True(t, errors.Is(err, provider.ErrInvalidEmail))

		_, err = env.providers.Create(ctx, CreateProviderRequest{Name: "华润二厂", Email: "sales@crc.com"})
		assert.True(t, errors.Is(err, provider.ErrDuplicateEmail))
	})

	t.Run("部分更新", func(t *testing.T) {
		phone := "010-8888"
		updated, err := env.providers.Update(ctx, UpdateProviderRequest{ID: created.ID, Phone: &phone})
		require.NoError(t, err)
		assert.Equal(t, "010-8888", updated.Phone)
		assert.Equal(t, "华润", updated.Name)
		assert.Equal(t, "sales@crc.com", updated.Email)

		got, err := env.providers.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "010-8888", got.Phone)
	})

	t.Run("删除", func(t *testing.T) {
		require.NoError(t, env.providers.Delete(ctx, created.ID))
		assert.Equal(t, "provider.deleted", env.stats.reasons[len(env.stats.reasons)-1])

		err := env.providers.Delete(ctx, created.ID)
		assert.True(t, errors.Is(err, provider.ErrProviderNotFound))

		list, err := env.providers.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
