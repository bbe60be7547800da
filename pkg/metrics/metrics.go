// Package metrics 基于Prometheus的指标收集
//
// 指标类型：
//   - Counter：只增不减的累计值（请求总数、销售单总数）
//   - Gauge：可增可减的瞬时值（处理中的请求数、熔断器状态）
//   - Histogram：观测值分布（请求耗时、下单耗时、销售金额）
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds），
// 标签只使用有限取值的维度（method、status、kind），不要用user_id、sale_id。
//
// 使用示例：
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	start := time.Now()
//	metrics.IncGauge(metrics.SalesInProgress)
//	defer metrics.DecGauge(metrics.SalesInProgress)
//	...
//	metrics.ObserveHistogram(metrics.SaleCreationDuration, time.Since(start).Seconds())
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// once 保证只注册一次（promauto重复注册会panic）
	once sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/v1/sales/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 销售业务指标

	// SalesPlacedTotal 成功下单总数
	SalesPlacedTotal prometheus.Counter

	// SalesFailedTotal 下单失败总数
	// 标签：kind（EmptyItemList/InvalidQuantity/ProductNotFound/InsufficientStock/PersistenceError）
	SalesFailedTotal *prometheus.CounterVec

	// SalesCancelledTotal 撤销销售单总数
	SalesCancelledTotal prometheus.Counter

	// SaleCreationDuration 下单耗时（含事务与锁等待）
	SaleCreationDuration prometheus.Histogram

	// SaleAmount 单笔销售金额分布
	SaleAmount prometheus.Histogram

	// SalesInProgress 正在处理的下单请求数
	SalesInProgress prometheus.Gauge

	// 熔断器指标

	// CircuitBreakerState 熔断器状态 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数
	// 标签：exchange、routing_key
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数
	// 标签：queue、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec

	// MessageProcessingDuration 消息处理耗时
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 初始化所有Prometheus指标
// 程序启动时调用；重复调用是安全的
func InitMetrics() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	SalesPlacedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sales_placed_total",
			Help: "成功下单总数",
		},
	)

	SalesFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sales_failed_total",
			Help: "下单失败总数",
		},
		[]string{"kind"},
	)

	SalesCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sales_cancelled_total",
			Help: "撤销销售单总数",
		},
	)

	SaleCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "sale_creation_duration_seconds",
			Help: "下单耗时（秒）",
			// 包含行锁等待，热门商品并发下单时会明显变长
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	SaleAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sale_amount",
			Help:    "单笔销售金额",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000},
		},
	)

	SalesInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sales_in_progress",
			Help: "正在处理的下单请求数",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)

	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_processing_duration_seconds",
			Help:    "消息处理耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
	)
}

// IncCounter 递增Counter（便捷函数）
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
