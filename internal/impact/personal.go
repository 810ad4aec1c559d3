package impact

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"backend/internal/carbon"
	"backend/internal/catalog"
	"backend/internal/common"
	"backend/internal/logger"
	"backend/internal/predictor"
	"backend/internal/prompt"

	"go.uber.org/zap"
)

// PersonalCalculator 单次请求碳影响计算器
// 编排特征派生、模型目录查找与两个外部服务调用
// 所有依赖显式注入，计算器本身无状态，可被并发请求共享
type PersonalCalculator struct {
	catalog   *catalog.Catalog
	intensity carbon.Provider // 要求注入带降级装饰器的提供方，获取永不失败
	predictor predictor.Predictor
}

// NewPersonalCalculator 创建单次请求计算器
func NewPersonalCalculator(cat *catalog.Catalog, intensity carbon.Provider, pred predictor.Predictor) *PersonalCalculator {
	return &PersonalCalculator{
		catalog:   cat,
		intensity: intensity,
		predictor: pred,
	}
}

// Compute 计算单次请求的能耗与碳排放
// 校验失败返回对应业务错误；预测服务失败对请求是致命的，
// 碳强度服务失败则由降级装饰器兜底，绝不阻塞请求
func (c *PersonalCalculator) Compute(ctx context.Context, req Request) (*PersonalResult, error) {
	// 1. 校验：模型必须在目录中，提示词非空，坐标可解析且在范围内
	spec, err := c.catalog.Lookup(req.ModelID)
	if err != nil {
		return nil, common.NewBusinessError(common.CodeUnknownModel,
			fmt.Sprintf("模型 %q 不在可用目录中", req.ModelID))
	}

	if strings.TrimSpace(req.Prompt) == "" {
		return nil, common.NewBusinessErrorWithCode(common.CodeInvalidPrompt)
	}

	deviceType, err := NormalizeDeviceType(req.DeviceType)
	if err != nil {
		return nil, common.NewBusinessError(common.CodeInvalidRequest, err.Error())
	}

	loc, err := ParseLocation(req.Location)
	if err != nil {
		return nil, common.NewBusinessError(common.CodeInvalidLocation, err.Error())
	}

	// 2. 派生提示词特征
	features := prompt.Featurize(req.Prompt)

	// 3+4. 碳强度与能耗预测互不依赖，并发请求
	var (
		wg        sync.WaitGroup
		intensity carbon.Intensity
		intErr    error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		intensity, intErr = c.intensity.IntensityAt(ctx, loc.Lat, loc.Lon)
	}()

	estimate, predErr := c.predictor.Predict(ctx, predictor.Input{
		HasGPU:         req.HasGPU,
		DeviceType:     deviceType,
		ParameterCount: spec.ParameterCount,
		Prompt:         features,
	})
	wg.Wait()

	if predErr != nil {
		logger.WithContext(ctx).Error("能耗预测服务调用失败",
			zap.String("model", spec.ModelID),
			zap.Error(predErr),
		)
		return nil, common.NewBusinessErrorWithCode(common.CodePredictionFailed)
	}
	if intErr != nil {
		// 注入了降级装饰器时不会走到这里
		return nil, fmt.Errorf("碳强度获取失败: %w", intErr)
	}

	// 5. 位置校正：同样的能耗在不同电网产生不同排放
	// 预测服务返回的基线碳排放只作参考，始终以位置强度重算覆盖，绝不相加
	carbonGCO2 := estimate.EnergyKWh * intensity.GramsPerKWh

	if intensity.Fallback {
		logger.WithContext(ctx).Info("本次结果使用了降级碳强度",
			zap.Float64("intensity", intensity.GramsPerKWh),
		)
	}

	// 6. 日常量级换算
	return &PersonalResult{
		EnergyKWh:   estimate.EnergyKWh,
		CarbonGCO2:  carbonGCO2,
		Equivalents: equivalentsFor(estimate.EnergyKWh, carbonGCO2),
		Intensity:   intensity,
	}, nil
}
