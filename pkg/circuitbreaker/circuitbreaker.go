// Package circuitbreaker 保护销售事件发布这类"尽力而为"的下游调用
//
// 消息代理连续失败达到阈值后熔断，冷却期内所有发布立即返回ErrOpenState，
// 下单/撤单不会被代理超时拖慢。冷却结束后只放行一次试探发布:
// 成功则恢复，失败则重新计时。
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/xiebiao/pos-inventory/pkg/metrics"
)

// State 熔断器状态,数值即circuit_breaker_state指标的取值
type State int

const (
	StateClosed   State = iota // 正常放行
	StateOpen                  // 熔断中,快速失败
	StateHalfOpen              // 冷却结束,等待试探结果
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpenState 熔断期间的调用直接返回该错误,不会触达下游
var ErrOpenState = errors.New("circuit breaker is open")

// Config 熔断参数
type Config struct {
	FailureThreshold int           // 连续失败多少次后熔断
	Cooldown         time.Duration // 熔断后多久放行试探
}

// DefaultConfig 连续失败5次熔断，30秒后试探
func DefaultConfig() Config {
	return Config{FailureThreshold: 5, Cooldown: 30 * time.Second}
}

// Option 可选项
type Option func(*Breaker)

// WithClock 替换时钟(测试用)
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) { b.now = now }
}

// OnStateChange 状态切换回调,在持锁状态下调用,回调里不要再访问熔断器
func OnStateChange(fn func(name string, from, to State)) Option {
	return func(b *Breaker) { b.onChange = fn }
}

// Breaker 按连续失败次数熔断
type Breaker struct {
	name string
	cfg  Config

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	trial    bool // 半开状态下已有试探在途

	now      func() time.Time
	onChange func(name string, from, to State)
}

// New 创建熔断器，name作为指标标签
func New(name string, cfg Config, opts ...Option) *Breaker {
	defaults := DefaultConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaults.Cooldown
	}
	b := &Breaker{name: name, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}

	metrics.InitMetrics()
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(StateClosed))
	return b
}

// Execute 在熔断器保护下执行fn
// 熔断期间fn不会被调用，直接返回ErrOpenState
func (b *Breaker) Execute(fn func() error) error {
	if !b.allow() {
		b.count("rejected")
		return ErrOpenState
	}

	err := fn()
	b.finish(err == nil)
	if err != nil {
		b.count("failure")
	} else {
		b.count("success")
	}
	return err
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.current() {
	case StateOpen:
		return false
	case StateHalfOpen:
		if b.trial {
			return false
		}
		b.trial = true
	}
	return true
}

func (b *Breaker) finish(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := b.current()
	if state == StateHalfOpen {
		b.trial = false
		if ok {
			b.failures = 0
			b.setState(StateClosed)
		} else {
			b.trip()
		}
		return
	}

	// 熔断前已在途的调用，结果不再影响计数
	if state != StateClosed {
		return
	}
	if ok {
		b.failures = 0
		return
	}
	b.failures++
	if b.failures >= b.cfg.FailureThreshold {
		b.trip()
	}
}

// current 冷却期满时把OPEN推进到HALF_OPEN
func (b *Breaker) current() State {
	if b.state == StateOpen && !b.now().Before(b.openedAt.Add(b.cfg.Cooldown)) {
		b.setState(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) trip() {
	b.failures = 0
	b.openedAt = b.now()
	b.setState(StateOpen)
}

func (b *Breaker) setState(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": b.name}, float64(to))
	if b.onChange != nil {
		b.onChange(b.name, from, to)
	}
}

func (b *Breaker) count(result string) {
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": b.name, "result": result})
}

// State 当前状态
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current()
}

// Name 熔断器名称
func (b *Breaker) Name() string {
	return b.name
}
