package predictor

import (
	"context"

	"backend/internal/prompt"
)

// Input 预测输入：设备与模型参数加上提示词统计特征
type Input struct {
	HasGPU         bool            // 是否有可用 GPU
	DeviceType     string          // 设备类型（desktop/laptop/server）
	ParameterCount int             // 模型参数量（十亿）
	Prompt         prompt.Features // 提示词特征
}

// Estimate 预测输出
// 能耗是核心结果；基线碳排放是部署模型的可选第二列输出，
// 最终碳排放始终以位置碳强度重算覆盖，绝不与基线相加
type Estimate struct {
	EnergyKWh          float64 // 预测能耗 kWh
	BaselineCarbonGCO2 float64 // 基线碳排放 gCO2（可选）
	HasBaseline        bool    // 响应中是否包含基线碳排放列
}

// Predictor 能耗预测能力接口
// 远端回归服务是黑盒，计算器只依赖此接口，便于在测试中替换
type Predictor interface {
	Predict(ctx context.Context, in Input) (Estimate, error)
}
