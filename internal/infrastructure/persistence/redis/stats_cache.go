package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/pos-inventory/internal/infrastructure/config"
)

// statsKeyPrefix 报表缓存Key前缀：stats:{name}
const statsKeyPrefix = "stats:"

// StatsCache 报表统计缓存
// 统计查询涉及全表聚合，短时间缓存（默认30秒）即可；
// 销售下单、撤销后主动失效，保证报表不会长时间滞后
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache 创建统计缓存
func NewStatsCache(client *redis.Client, cfg *config.Config) *StatsCache {
	return &StatsCache{client: client, ttl: cfg.Redis.StatsTTL}
}

// Get 读取缓存，未命中返回(false, nil)
func (c *StatsCache) Get(ctx context.Context, name string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, statsKeyPrefix+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, wrapRedis(err, "读取统计缓存失败")
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// 缓存内容损坏视为未命中
		return false, nil
	}
	return true, nil
}

// Set 写入缓存
func (c *StatsCache) Set(ctx context.Context, name string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return wrapRedis(err, "序列化统计数据失败")
	}
	if err := c.client.Set(ctx, statsKeyPrefix+name, data, c.ttl).Err(); err != nil {
		return wrapRedis(err, "写入统计缓存失败")
	}
	return nil
}

// Invalidate 删除缓存
func (c *StatsCache) Invalidate(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = statsKeyPrefix + name
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return wrapRedis(err, "删除统计缓存失败")
	}
	return nil
}
