package carbon

import (
	"context"
	"time"
)

// Intensity 电网碳强度值对象
type Intensity struct {
	GramsPerKWh float64   // 碳强度 gCO2/kWh
	Lat         float64   // 来源纬度
	Lon         float64   // 来源经度
	FetchedAt   time.Time // 获取时间
	Fallback    bool      // 是否为降级默认值
}

// Provider 碳强度提供方能力接口
// 计算器只依赖此接口，外部客户端、缓存与降级均以装饰器形式组合
type Provider interface {
	IntensityAt(ctx context.Context, lat, lon float64) (Intensity, error)
}
