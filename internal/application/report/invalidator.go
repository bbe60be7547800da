package report

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	appsale "github.com/xiebiao/pos-inventory/internal/application/sale"
	"github.com/xiebiao/pos-inventory/pkg/logger"
)

// CacheInvalidator 数据变化后让统计缓存失效
//
// 接入方式:
//  1. 启用消息队列时作为消费者处理函数(Handle),订阅sale.*
//  2. 未启用时直接作为销售用例的事件发布器(Publish),进程内同步失效
//  3. 商品、分类、供应商、欠款、用户的增删改直接调用InvalidateStatistics
//
// 失效失败只记录警告:缓存最多在stats_ttl后自然过期,不值得让业务请求失败或让消息反复重投
type CacheInvalidator struct {
	cache Cache
}

// NewCacheInvalidator 创建缓存失效器
func NewCacheInvalidator(cache Cache) *CacheInvalidator {
	return &CacheInvalidator{cache: cache}
}

// Handle 处理来自消息队列的销售事件(签名与mq.Handler一致)
// 总是返回nil:消息体无法解析时丢弃,缓存故障时等待TTL过期
func (i *CacheInvalidator) Handle(ctx context.Context, routingKey string, body []byte) error {
	var event appsale.Event
	if err := json.Unmarshal(body, &event); err != nil {
		logger.FromContext(ctx).Warn("drop malformed sale event", zap.String("routing_key", routingKey), zap.Error(err))
		return nil
	}
	i.InvalidateStatistics(ctx, routingKey)
	return nil
}

// Publish 实现appsale.EventPublisher
func (i *CacheInvalidator) Publish(ctx context.Context, routingKey string, _ appsale.Event) error {
	i.InvalidateStatistics(ctx, routingKey)
	return nil
}

// InvalidateStatistics 删除统计缓存,reason记入日志(如sale.placed、product.created)
func (i *CacheInvalidator) InvalidateStatistics(ctx context.Context, reason string) {
	log := logger.FromContext(ctx)
	if err := i.cache.Invalidate(ctx, statisticsKey); err != nil {
		log.Warn("invalidate statistics cache failed", zap.String("reason", reason), zap.Error(err))
		return
	}
	log.Debug("statistics cache invalidated", zap.String("reason", reason))
}
