package impact

import (
	"context"

	"backend/internal/common"
)

// daysPerYear 固定 365 天年，闰年不单独处理（已记录的取舍）
const daysPerYear = 365

// monthDayCounts 各月天数，分摊权重
var monthDayCounts = [12]int64{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// EnterpriseCalculator 企业级碳影响计算器
// 以一次代表性请求的结果为单位，按组织用量参数放大为年度预测
type EnterpriseCalculator struct {
	personal *PersonalCalculator
}

// NewEnterpriseCalculator 创建企业级计算器
func NewEnterpriseCalculator(personal *PersonalCalculator) *EnterpriseCalculator {
	return &EnterpriseCalculator{personal: personal}
}

// Compute 计算组织年度碳影响
// 代表性请求计算失败则整体失败，不产生部分结果
func (c *EnterpriseCalculator) Compute(ctx context.Context, req EnterpriseRequest) (*EnterpriseResult, error) {
	// 1. 规模参数校验
	if req.QueriesPerUserPerDay < 1 || req.NumberOfEmployees < 1 {
		return nil, common.NewBusinessErrorWithCode(common.CodeInvalidScale)
	}

	// 2. 代表性请求：用同样的提示词/模型/设备/位置计算单次结果
	perQuery, err := c.personal.Compute(ctx, req.Request)
	if err != nil {
		return nil, err
	}

	// 3-5. 年度汇总，内部保持全精度浮点，四舍五入只发生在表现层
	totalQueries := int64(req.QueriesPerUserPerDay) * int64(req.NumberOfEmployees) * daysPerYear
	totalEnergyKWh := float64(totalQueries) * perQuery.EnergyKWh
	totalCarbonKg := float64(totalQueries) * perQuery.CarbonGCO2 / 1000

	// 6. 月度分摊：按各月天数占 365 的比例分配请求数，而非均分 1/12；
	// 末月吸收整除余数，保证 12 个月之和恰好等于年度总数
	monthly := make([]MonthEntry, 12)
	var assigned int64
	for m := 0; m < 12; m++ {
		var queries int64
		if m < 11 {
			queries = totalQueries * monthDayCounts[m] / daysPerYear
			assigned += queries
		} else {
			queries = totalQueries - assigned
		}
		monthly[m] = MonthEntry{
			Queries:   queries,
			EnergyKWh: float64(queries) * perQuery.EnergyKWh,
			CarbonKg:  float64(queries) * perQuery.CarbonGCO2 / 1000,
		}
	}

	// 7. 人均指标
	queriesPerYear := int64(req.QueriesPerUserPerDay) * daysPerYear
	perEmployee := PerEmployee{
		QueriesPerYear: queriesPerYear,
		EnergyKWh:      float64(queriesPerYear) * perQuery.EnergyKWh,
		CarbonKg:       float64(queriesPerYear) * perQuery.CarbonGCO2 / 1000,
	}

	// 8. 年度量级的日常换算，与单次计算使用同一组常量
	return &EnterpriseResult{
		Yearly: YearlyTotals{
			TotalQueries:   totalQueries,
			TotalEnergyKWh: totalEnergyKWh,
			TotalCarbonKg:  totalCarbonKg,
		},
		Monthly:     monthly,
		PerEmployee: perEmployee,
		Equivalents: equivalentsFor(totalEnergyKWh, totalCarbonKg*1000),
	}, nil
}
