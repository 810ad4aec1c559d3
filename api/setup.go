package api

import (
	"context"
	"fmt"
	"time"

	computationHandlers "backend/api/handlers/computation"
	infosHandlers "backend/api/handlers/infos"
	"backend/internal/carbon"
	"backend/internal/catalog"
	"backend/internal/config"
	"backend/internal/impact"
	"backend/internal/logger"
	"backend/internal/metrics"
	"backend/internal/predictor"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SetupRouter 设置并返回 Gin 路由
// 模型目录在进程启动时加载一次，作为只读依赖显式传入各计算器
func SetupRouter(cfg *config.Config, cat *catalog.Catalog) (*gin.Engine, error) {
	router := gin.New()

	// 全局中间件
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger())
	router.Use(CORS())

	// Prometheus 指标收集中间件
	router.Use(metrics.PrometheusMiddleware())

	// 公开端点
	router.GET("/health", HealthCheck())
	router.GET("/ready", ReadinessCheck(cat))

	// Prometheus 指标端点
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 碳强度提供方：客户端 → 坐标缓存 → 降级兜底，由外到内组合
	intensityProvider := buildIntensityProvider(cfg)

	// 能耗预测客户端
	watsonClient, err := predictor.NewWatsonClient(cfg.Predictor)
	if err != nil {
		return nil, fmt.Errorf("初始化能耗预测客户端失败: %w", err)
	}

	// 计算器
	personalCalc := impact.NewPersonalCalculator(cat, intensityProvider, watsonClient)
	enterpriseCalc := impact.NewEnterpriseCalculator(personalCalc)

	// Handlers
	computationHandler := computationHandlers.NewHandler(personalCalc, enterpriseCalc)
	infosHandler := infosHandlers.NewHandler(cat, cfg.App.Name)

	// 路由注册
	computation := router.Group("/computation")
	{
		computation.POST("/simulate_carbon_impact/", computationHandler.SimulateCarbonImpact)
		computation.POST("/simulate_enterprise_impact/", computationHandler.SimulateEnterpriseImpact)
	}

	infosGroup := router.Group("/infos")
	{
		infosGroup.GET("/models/", infosHandler.GetModels)
		infosGroup.GET("/app_name/", infosHandler.GetAppName)
	}

	return router, nil
}

// buildIntensityProvider 组装碳强度提供方装饰器链
func buildIntensityProvider(cfg *config.Config) carbon.Provider {
	var provider carbon.Provider = carbon.NewElectricityMapsClient(
		cfg.Carbon.BaseURL,
		cfg.Carbon.APIToken,
		time.Duration(cfg.Carbon.TimeoutSeconds)*time.Second,
	)

	// 按坐标的短窗口缓存（可选）
	if ttl, err := time.ParseDuration(cfg.Carbon.CacheTTL); err == nil && ttl > 0 {
		provider = carbon.NewCachedProvider(provider, buildIntensityStore(cfg), ttl)
	}

	// 降级兜底放在最外层：缓存失效且查询失败时仍能返回默认强度
	return carbon.NewFallbackProvider(provider, cfg.Carbon.FallbackIntensity)
}

// buildIntensityStore 选择缓存后端：优先 Redis，不可用则退回内存实现
func buildIntensityStore(cfg *config.Config) carbon.Store {
	if !cfg.Redis.Enabled {
		return carbon.NewMemoryStore()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("Redis 不可用，碳强度缓存退回内存实现", zap.Error(err))
		return carbon.NewMemoryStore()
	}

	logger.Info("碳强度缓存使用 Redis 后端",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)),
	)
	return carbon.NewRedisStore(redisClient)
}
