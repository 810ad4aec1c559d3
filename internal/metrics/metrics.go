package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API 指标
var (
	// APIRequestsTotal API 请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecollm_api_requests_total",
			Help: "API 请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration API 请求延迟（秒）
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecollm_api_request_duration_seconds",
			Help:    "API 请求延迟分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// 碳影响模拟指标
var (
	// SimulationsTotal 模拟计算总数
	SimulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecollm_simulations_total",
			Help: "碳影响模拟计算总数",
		},
		[]string{"kind", "status"}, // kind: personal, enterprise
	)

	// PredictorRequestsTotal 能耗预测服务调用总数
	PredictorRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecollm_predictor_requests_total",
			Help: "能耗预测服务调用总数",
		},
		[]string{"status"}, // success, error
	)

	// PredictorRequestDuration 能耗预测服务调用耗时（秒）
	PredictorRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ecollm_predictor_request_duration_seconds",
			Help:    "能耗预测服务调用耗时分布",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// IntensityFallbackTotal 碳强度降级使用次数
	IntensityFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ecollm_intensity_fallback_total",
			Help: "碳强度服务降级为默认值的次数",
		},
	)

	// IntensityCacheHitsTotal 碳强度缓存命中次数
	IntensityCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ecollm_intensity_cache_hits_total",
			Help: "碳强度按坐标缓存命中次数",
		},
	)
)
