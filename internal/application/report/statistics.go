package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/pos-inventory/internal/domain/category"
	"github.com/xiebiao/pos-inventory/internal/domain/debt"
	"github.com/xiebiao/pos-inventory/internal/domain/product"
	"github.com/xiebiao/pos-inventory/internal/domain/provider"
	"github.com/xiebiao/pos-inventory/internal/domain/sale"
	"github.com/xiebiao/pos-inventory/internal/domain/user"
	"github.com/xiebiao/pos-inventory/pkg/logger"
)

// statisticsKey 统计数据的缓存名
const statisticsKey = "statistics"

// Cache 统计缓存(由redis.StatsCache实现)
type Cache interface {
	Get(ctx context.Context, name string, dest interface{}) (bool, error)
	Set(ctx context.Context, name string, value interface{}) error
	Invalidate(ctx context.Context, names ...string) error
}

// Statistics 全局统计
type Statistics struct {
	Products        int64     `json:"products"`
	TotalStock      int64     `json:"total_stock"`
	Sales           int64     `json:"sales"`
	SalesAmount     string    `json:"sales_amount"`
	Debts           int64     `json:"debts"`
	OutstandingDebt string    `json:"outstanding_debt"`
	Users           int64     `json:"users"`
	Categories      int64     `json:"categories"`
	Providers       int64     `json:"providers"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// StatisticsUseCase 统计报表
// 先读缓存,未命中再做全表聚合并回写;缓存故障只记录日志,不影响查询
type StatisticsUseCase struct {
	productRepo  product.Repository
	saleRepo     sale.Repository
	debtRepo     debt.Repository
	userRepo     user.Repository
	categoryRepo category.Repository
	providerRepo provider.Repository
	cache        Cache
}

// NewStatisticsUseCase 创建统计用例
func NewStatisticsUseCase(
	productRepo product.Repository,
	saleRepo sale.Repository,
	debtRepo debt.Repository,
	userRepo user.Repository,
	categoryRepo category.Repository,
	providerRepo provider.Repository,
	cache Cache,
) *StatisticsUseCase {
	return &StatisticsUseCase{
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		debtRepo:     debtRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		providerRepo: providerRepo,
		cache:        cache,
	}
}

// Execute 查询统计数据
func (uc *StatisticsUseCase) Execute(ctx context.Context) (*Statistics, error) {
	log := logger.FromContext(ctx)

	var cached Statistics
	hit, err := uc.cache.Get(ctx, statisticsKey, &cached)
	if err != nil {
		log.Warn("read statistics cache failed", zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	stats, err := uc.compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Set(ctx, statisticsKey, stats); err != nil {
		log.Warn("write statistics cache failed", zap.Error(err))
	}
	return stats, nil
}

func (uc *StatisticsUseCase) compute(ctx context.Context) (*Statistics, error) {
	products, totalStock, err := uc.productRepo.Summary(ctx)
	if err != nil {
		return nil, err
	}
	sales, salesAmount, err := uc.saleRepo.Summary(ctx)
	if err != nil {
		return nil, err
	}
	debts, outstanding, err := uc.debtRepo.Summary(ctx)
	if err != nil {
		return nil, err
	}
	users, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := uc.categoryRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	providers, err := uc.providerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &Statistics{
		Products:        products,
		TotalStock:      totalStock,
		Sales:           sales,
		SalesAmount:     salesAmount.StringFixed(2),
		Debts:           debts,
		OutstandingDebt: outstanding.StringFixed(2),
		Users:           users,
		Categories:      categories,
		Providers:       providers,
		GeneratedAt:     time.Now(),
	}, nil
}
