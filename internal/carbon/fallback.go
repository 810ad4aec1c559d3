package carbon

import (
	"context"
	"time"

	"backend/internal/logger"
	"backend/internal/metrics"

	"go.uber.org/zap"
)

// FallbackProvider 降级装饰器
// 外部碳强度服务失败或超时不应阻塞整个请求，此处回退为配置的默认强度，
// 并在结果上打降级标记供观测，调用方永远不会收到错误
type FallbackProvider struct {
	inner            Provider
	defaultIntensity float64
}

// NewFallbackProvider 创建降级装饰器
func NewFallbackProvider(inner Provider, defaultIntensity float64) *FallbackProvider {
	return &FallbackProvider{
		inner:            inner,
		defaultIntensity: defaultIntensity,
	}
}

// IntensityAt 获取碳强度，失败时返回降级默认值
func (p *FallbackProvider) IntensityAt(ctx context.Context, lat, lon float64) (Intensity, error) {
	intensity, err := p.inner.IntensityAt(ctx, lat, lon)
	if err == nil {
		return intensity, nil
	}

	logger.WithContext(ctx).Warn("碳强度服务不可用，降级为默认值",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.Float64("default_intensity", p.defaultIntensity),
		zap.Error(err),
	)
	metrics.IntensityFallbackTotal.Inc()

	return Intensity{
		GramsPerKWh: p.defaultIntensity,
		Lat:         lat,
		Lon:         lon,
		FetchedAt:   time.Now().UTC(),
		Fallback:    true,
	}, nil
}
