package circuitbreaker

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/pos-inventory/pkg/metrics"
)

var errBroker = errors.New("broker unavailable")

// fakeClock 手动推进的时钟
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// broker 模拟消息代理,down=true时发布失败
type broker struct {
	down  bool
	calls int
}

func (b *broker) publish() error {
	b.calls++
	if b.down {
		return errBroker
	}
	return nil
}

func newBreaker(t *testing.T, clock *fakeClock, opts ...Option) *Breaker {
	t.Helper()
	opts = append([]Option{WithClock(clock.now)}, opts...)
	return New(t.Name(), Config{FailureThreshold: 3, Cooldown: 30 * time.Second}, opts...)
}

func TestBreaker(t *testing.T) {
	t.Run("代理正常时全部放行", func(t *testing.T) {
		clock := &fakeClock{t: time.Now()}
		b := newBreaker(t, clock)
		br := &broker{}

		for i := 0; i < 10; i++ {
			require.NoError(t, b.Execute(br.publish))
		}
		assert.Equal(t, 10, br.calls)
		assert.Equal(t, StateClosed, b.State())
		t.Logf("✓ 10次发布全部到达代理")
	})

	t.Run("成功会清零连续失败", func(t *testing.T) {
		clock := &fakeClock{t: time.Now()}
		b := newBreaker(t, clock)
		br := &broker{}

		for i := 0; i < 5; i++ {
			br.down = true
			assert.Error(t, b.Execute(br.publish))
			assert.Error(t, b.Execute(br.publish))
			br.down = false
			assert.NoError(t, b.Execute(br.publish))
		}
		assert.Equal(t, StateClosed, b.State(), "间歇失败未达到连续阈值")
		t.Logf("✓ 间歇失败不熔断")
	})

	t.Run("连续失败后熔断并快速失败", func(t *testing.T) {
		clock := &fakeClock{t: time.Now()}
		b := newBreaker(t, clock)
		br := &broker{down: true}

		for i := 0; i < 3; i++ {
			assert.ErrorIs(t, b.Execute(br.publish), errBroker)
		}
		assert.Equal(t, StateOpen, b.State())

		for i := 0; i < 5; i++ {
			assert.ErrorIs(t, b.Execute(br.publish), ErrOpenState)
		}
		assert.Equal(t, 3, br.calls, "熔断期间不触达代理")
		t.Logf("✓ 熔断后调用次数停留在%d", br.calls)
	})

	t.Run("冷却结束后试探成功则恢复", func(t *testing.T) {
		clock := &fakeClock{t: time.Now()}
		b := newBreaker(t, clock)
		br := &broker{down: true}
		for i := 0; i < 3; i++ {
			_ = b.Execute(br.publish)
		}

		clock.advance(29 * time.Second)
		assert.Equal(t, StateOpen, b.State(), "冷却未结束")

		clock.advance(time.Second)
		assert.Equal(t, StateHalfOpen, b.State())

		br.down = false
		require.NoError(t, b.Execute(br.publish))
		assert.Equal(t, StateClosed, b.State())
		t.Logf("✓ 代理恢复后熔断器关闭")
	})

	t.Run("试探失败重新计时", func(t *testing.T) {
		clock := &fakeClock{t: time.Now()}
		b := newBreaker(t, clock)
		br := &broker{down: true}
		for i := 0; i < 3; i++ {
			_ = b.Execute(br.publish)
		}
		clock.advance(30 * time.Second)

		assert.ErrorIs(t, b.Execute(br.publish), errBroker)
		assert.Equal(t, StateOpen, b.State())

		clock.advance(10 * time.Second)
		assert.ErrorIs(t, b.Execute(br.publish), ErrOpenState, "冷却从试探失败时重新开始")
		assert.Equal(t, 4, br.calls)
	})

	t.Run("半开状态只放行一次试探", func(t *testing.T) {
		clock := &fakeClock{t: time.Now()}
		b := newBreaker(t, clock)
		br := &broker{down: true}
		for i := 0; i < 3; i++ {
			_ = b.Execute(br.publish)
		}
		clock.advance(30 * time.Second)

		var nested error
		err := b.Execute(func() error {
			// 试探尚未返回时的其他发布
			nested = b.Execute(br.publish)
			return nil
		})
		require.NoError(t, err)
		assert.ErrorIs(t, nested, ErrOpenState)
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("状态切换回调", func(t *testing.T) {
		clock := &fakeClock{t: time.Now()}
		var changes []string
		b := newBreaker(t, clock, OnStateChange(func(name string, from, to State) {
			changes = append(changes, fmt.Sprintf("%s:%s->%s", name, from, to))
		}))
		br := &broker{down: true}
		for i := 0; i < 3; i++ {
			_ = b.Execute(br.publish)
		}
		clock.advance(time.Minute)
		br.down = false
		_ = b.Execute(br.publish)

		name := b.Name()
		assert.Equal(t, []string{
			name + ":CLOSED->OPEN",
			name + ":OPEN->HALF_OPEN",
			name + ":HALF_OPEN->CLOSED",
		}, changes)
	})
}

func TestBreakerMetrics(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	b := New("sale-events-metrics", Config{FailureThreshold: 2, Cooldown: time.Minute}, WithClock(clock.now))
	br := &broker{}

	_ = b.Execute(br.publish)
	br.down = true
	_ = b.Execute(br.publish)
	_ = b.Execute(br.publish)
	_ = b.Execute(br.publish)

	result := func(r string) float64 {
		return testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("sale-events-metrics", r))
	}
	assert.Equal(t, float64(1), result("success"))
	assert.Equal(t, float64(2), result("failure"))
	assert.Equal(t, float64(1), result("rejected"))
	assert.Equal(t, float64(StateOpen), testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("sale-events-metrics")))
	t.Logf("✓ 调用结果与状态已上报")
}

func TestConfigDefaults(t *testing.T) {
	b := New("zero-config", Config{})
	br := &broker{down: true}
	for i := 0; i < DefaultConfig().FailureThreshold-1; i++ {
		_ = b.Execute(br.publish)
	}
	assert.Equal(t, StateClosed, b.State())
	_ = b.Execute(br.publish)
	assert.Equal(t, StateOpen, b.State(), "零值配置使用默认阈值与冷却时间")
}
