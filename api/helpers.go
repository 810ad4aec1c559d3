package api

import (
	"backend/internal/catalog"

	"github.com/gin-gonic/gin"
)

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ReadinessResponse 就绪检查响应
type ReadinessResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	Models int    `json:"models,omitempty"`
}

// HealthCheck 健康检查
// @Summary 服务健康检查
// @Description 返回基础健康状态，可供监控探针使用
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func HealthCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "EcoLLM",
		})
	}
}

// ReadinessCheck 就绪检查
// @Summary 服务就绪检查
// @Description 模型目录已加载则视为可接收请求
// @Tags System
// @Produce json
// @Success 200 {object} ReadinessResponse
// @Failure 503 {object} ReadinessResponse
// @Router /ready [get]
func ReadinessCheck(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cat == nil || len(cat.ListAll()) == 0 {
			c.JSON(503, gin.H{
				"status": "not_ready",
				"reason": "model catalog not loaded",
			})
			return
		}

		c.JSON(200, gin.H{
			"status": "ready",
			"models": len(cat.ListAll()),
		})
	}
}
