package carbon

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"backend/internal/logger"
	"backend/pkg/httputil"

	"go.uber.org/zap"
)

// ElectricityMapsClient ElectricityMaps 碳强度 API 客户端
type ElectricityMapsClient struct {
	client  *httputil.Client
	baseURL string
}

// intensityResponse ElectricityMaps API 响应
type intensityResponse struct {
	CarbonIntensity *float64 `json:"carbonIntensity"`
	Zone            string   `json:"zone"`
	Datetime        string   `json:"datetime"`
}

// NewElectricityMapsClient 创建 ElectricityMaps 客户端
func NewElectricityMapsClient(baseURL, apiToken string, timeout time.Duration) *ElectricityMapsClient {
	headers := map[string]string{}
	if apiToken != "" {
		headers["auth-token"] = apiToken
	}

	return &ElectricityMapsClient{
		client: httputil.NewClient(
			httputil.WithTimeout(timeout),
			httputil.WithHeaders(headers),
		),
		baseURL: baseURL,
	}
}

// IntensityAt 获取指定坐标当前的电网碳强度
func (c *ElectricityMapsClient) IntensityAt(ctx context.Context, lat, lon float64) (Intensity, error) {
	now := time.Now().UTC()
	// API 要求的时间格式：2006-01-02+15:04，加号需保留
	datetime := url.QueryEscape(now.Format("2006-01-02 15:04"))

	reqURL := fmt.Sprintf("%s/v3/carbon-intensity/past?datetime=%s&lat=%v&lon=%v",
		c.baseURL, datetime, lat, lon)

	var resp intensityResponse
	if err := c.client.GetJSON(ctx, reqURL, &resp); err != nil {
		return Intensity{}, fmt.Errorf("碳强度查询失败: %w", err)
	}

	if resp.CarbonIntensity == nil {
		return Intensity{}, fmt.Errorf("碳强度响应缺少 carbonIntensity 字段")
	}

	logger.WithContext(ctx).Debug("碳强度查询成功",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.Float64("intensity", *resp.CarbonIntensity),
		zap.String("zone", resp.Zone),
	)

	return Intensity{
		GramsPerKWh: *resp.CarbonIntensity,
		Lat:         lat,
		Lon:         lon,
		FetchedAt:   now,
	}, nil
}
