package sale

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/pos-inventory/pkg/circuitbreaker"
)

// messagePublisher *mq.Publisher满足该接口
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// MQEventPublisher 通过消息队列发布销售事件
// 1. amqp Channel不能并发发布,用互斥锁串行化
// 2. 熔断器保护:broker不可用时快速失败,不拖慢下单
// 3. 每次发布有独立超时
type MQEventPublisher struct {
	mu        sync.Mutex
	publisher messagePublisher
	breaker   *circuitbreaker.Breaker
	timeout   time.Duration
	log       *zap.Logger
}

// NewMQEventPublisher 创建消息队列事件发布器
func NewMQEventPublisher(publisher messagePublisher, log *zap.Logger) *MQEventPublisher {
	breaker := circuitbreaker.New("sale-events", circuitbreaker.DefaultConfig(),
		circuitbreaker.OnStateChange(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		}),
	)

	return &MQEventPublisher{
		publisher: publisher,
		breaker:   breaker,
		timeout:   2 * time.Second,
		log:       log,
	}
}

// Publish 发布事件
func (p *MQEventPublisher) Publish(ctx context.Context, routingKey string, event Event) error {
	return p.breaker.Execute(func() error {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		p.mu.Lock()
		defer p.mu.Unlock()
		return p.publisher.Publish(ctx, routingKey, event)
	})
}

// Breaker 熔断器(用于状态查询)
func (p *MQEventPublisher) Breaker() *circuitbreaker.Breaker {
	return p.breaker
}

// NoopEventPublisher 未启用消息队列时使用
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, string, Event) error {
	return nil
}
