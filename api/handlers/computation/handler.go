package computation

import (
	"context"
	"net/http"

	"backend/internal/common"
	"backend/internal/impact"
	"backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// PersonalSimulator 单次模拟能力接口（便于测试替换）
type PersonalSimulator interface {
	Compute(ctx context.Context, req impact.Request) (*impact.PersonalResult, error)
}

// EnterpriseSimulator 企业级模拟能力接口
type EnterpriseSimulator interface {
	Compute(ctx context.Context, req impact.EnterpriseRequest) (*impact.EnterpriseResult, error)
}

// Handler 碳影响模拟 Handler
type Handler struct {
	personal   PersonalSimulator
	enterprise EnterpriseSimulator
}

// NewHandler 创建碳影响模拟 Handler
func NewHandler(personal PersonalSimulator, enterprise EnterpriseSimulator) *Handler {
	return &Handler{
		personal:   personal,
		enterprise: enterprise,
	}
}

// SimulateCarbonImpact 单次请求碳影响模拟
// @Summary 模拟单次AI请求的碳影响
// @Description 根据提示词、模型、设备与位置估算能耗与碳排放
// @Tags Computation
// @Accept json
// @Produce json
// @Param request body simulateRequest true "模拟请求"
// @Success 200 {object} simulateResponse
// @Failure 400 {object} common.APIResponse
// @Failure 502 {object} common.APIResponse
// @Router /computation/simulate_carbon_impact/ [post]
func (h *Handler) SimulateCarbonImpact(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "请求体解析失败: "+err.Error())
		return
	}

	result, err := h.personal.Compute(c.Request.Context(), impact.Request{
		Prompt:     req.Prompt,
		ModelID:    req.Model,
		DeviceType: req.DeviceType,
		HasGPU:     req.HasGPU,
		Location:   req.Location,
	})
	if err != nil {
		metrics.SimulationsTotal.WithLabelValues("personal", "error").Inc()
		common.ResponseFromError(c, err)
		return
	}

	metrics.SimulationsTotal.WithLabelValues("personal", "success").Inc()
	c.JSON(http.StatusOK, toSimulateResponse(result))
}

// SimulateEnterpriseImpact 企业级碳影响模拟
// @Summary 模拟组织年度AI使用的碳影响
// @Description 以单次请求为单位，按用量参数放大为年度/月度/人均指标
// @Tags Computation
// @Accept json
// @Produce json
// @Param request body enterpriseRequest true "企业级模拟请求"
// @Success 200 {object} enterpriseResponse
// @Failure 400 {object} common.APIResponse
// @Failure 502 {object} common.APIResponse
// @Router /computation/simulate_enterprise_impact/ [post]
func (h *Handler) SimulateEnterpriseImpact(c *gin.Context) {
	var req enterpriseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "请求体解析失败: "+err.Error())
		return
	}

	result, err := h.enterprise.Compute(c.Request.Context(), impact.EnterpriseRequest{
		Request: impact.Request{
			Prompt:     req.Prompt,
			ModelID:    req.Model,
			DeviceType: req.DeviceType,
			HasGPU:     req.HasGPU,
			Location:   req.Location,
		},
		QueriesPerUserPerDay: req.QueriesPerUserPerDay,
		NumberOfEmployees:    req.NumberOfEmployees,
	})
	if err != nil {
		metrics.SimulationsTotal.WithLabelValues("enterprise", "error").Inc()
		common.ResponseFromError(c, err)
		return
	}

	metrics.SimulationsTotal.WithLabelValues("enterprise", "success").Inc()
	c.JSON(http.StatusOK, toEnterpriseResponse(result))
}
