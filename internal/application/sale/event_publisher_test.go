package sale

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/pos-inventory/pkg/circuitbreaker"
)

type fakeBroker struct {
	calls int
	err   error
	keys  []string
}

func (b *fakeBroker) Publish(_ context.Context, routingKey string, _ interface{}) error {
	b.calls++
	b.keys = append(b.keys, routingKey)
	return b.err
}

func TestMQEventPublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("正常发布", func(t *testing.T) {
		broker := &fakeBroker{}
		p := NewMQEventPublisher(broker, zap.NewNop())

		require.NoError(t, p.Publish(ctx, RoutingKeySalePlaced, Event{SaleID: 1}))
		assert.Equal(t, []string{RoutingKeySalePlaced}, broker.keys)
	})

	t.Run("连续失败后熔断", func(t *testing.T) {
		broker := &fakeBroker{err: errors.New("connection refused")}
		p := NewMQEventPublisher(broker, zap.NewNop())

		for i := 0; i < 5; i++ {
			assert.Error(t, p.Publish(ctx, RoutingKeySalePlaced, Event{SaleID: uint(i)}))
		}
		assert.Equal(t, circuitbreaker.StateOpen, p.Breaker().State())

		err := p.Publish(ctx, RoutingKeySalePlaced, Event{SaleID: 99})
		assert.True(t, errors.Is(err, circuitbreaker.ErrOpenState), "熔断后快速失败")
		assert.Equal(t, 5, broker.calls, "熔断后不再调用broker")
	})

	t.Run("空实现", func(t *testing.T) {
		assert.NoError(t, NoopEventPublisher{}.Publish(ctx, RoutingKeySaleCancelled, Event{}))
	})
}
