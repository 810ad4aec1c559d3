package computation

import (
	"math"

	"backend/internal/impact"
)

// simulateRequest 单次碳影响模拟请求体
type simulateRequest struct {
	Prompt     string         `json:"prompt"`
	Model      string         `json:"model" binding:"required"`
	DeviceType string         `json:"device_type" binding:"required"`
	HasGPU     bool           `json:"has_gpu"`
	Location   string         `json:"location" binding:"required"` // "lat, lon" 文本坐标
	DeviceMeta map[string]any `json:"device_meta,omitempty"`       // 前端附带的设备信息，当前不参与计算
}

// enterpriseRequest 企业级模拟请求体
type enterpriseRequest struct {
	simulateRequest
	QueriesPerUserPerDay int `json:"queries_per_user_per_day" binding:"required"`
	NumberOfEmployees    int `json:"number_of_employees" binding:"required"`
}

// equivalentsDTO 日常量级换算
type equivalentsDTO struct {
	PhoneCharges float64 `json:"phone_charges"`
	LEDHours     float64 `json:"led_hours"`
	KmCar        float64 `json:"km_car"`
}

// simulateResponse 单次模拟响应体
type simulateResponse struct {
	EnergyKWh   float64        `json:"energy_kwh"`
	CarbonGCO2  float64        `json:"carbon_gco2"`
	Equivalents equivalentsDTO `json:"equivalents"`
}

// yearlyTotalsDTO 年度汇总
type yearlyTotalsDTO struct {
	TotalQueries   int64   `json:"total_queries"`
	TotalEnergyKWh float64 `json:"total_energy_kwh"`
	TotalCarbonKg  float64 `json:"total_carbon_kg"`
}

// monthEntryDTO 单月分摊
type monthEntryDTO struct {
	CarbonKg  float64 `json:"carbon_kg"`
	EnergyKWh float64 `json:"energy_kwh"`
	Queries   int64   `json:"queries"`
}

// perEmployeeDTO 人均指标
type perEmployeeDTO struct {
	QueriesPerYear int64   `json:"queries_per_year"`
	EnergyKWh      float64 `json:"energy_kwh"`
	CarbonKg       float64 `json:"carbon_kg"`
}

// enterpriseResponse 企业级模拟响应体
type enterpriseResponse struct {
	YearlyTotals     yearlyTotalsDTO `json:"yearly_totals"`
	MonthlyBreakdown []monthEntryDTO `json:"monthly_breakdown"`
	PerEmployee      perEmployeeDTO  `json:"per_employee"`
	Equivalents      equivalentsDTO  `json:"equivalents"`
}

// roundTo 四舍五入到指定小数位
// 内部计算保持全精度，取整只发生在这里的表现层边界
func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// toEquivalentsDTO 换算结果取两位小数
func toEquivalentsDTO(e impact.Equivalents) equivalentsDTO {
	return equivalentsDTO{
		PhoneCharges: roundTo(e.PhoneCharges, 2),
		LEDHours:     roundTo(e.LEDHours, 2),
		KmCar:        roundTo(e.KmCar, 2),
	}
}

// toSimulateResponse 能耗保留 Wh 级三位小数（kWh 六位），碳排放克级三位小数
func toSimulateResponse(r *impact.PersonalResult) simulateResponse {
	return simulateResponse{
		EnergyKWh:   roundTo(r.EnergyKWh, 6),
		CarbonGCO2:  roundTo(r.CarbonGCO2, 3),
		Equivalents: toEquivalentsDTO(r.Equivalents),
	}
}

// toEnterpriseResponse 年度量级碳排放保留 kg 级两位小数
func toEnterpriseResponse(r *impact.EnterpriseResult) enterpriseResponse {
	monthly := make([]monthEntryDTO, 0, len(r.Monthly))
	for _, m := range r.Monthly {
		monthly = append(monthly, monthEntryDTO{
			CarbonKg:  roundTo(m.CarbonKg, 2),
			EnergyKWh: roundTo(m.EnergyKWh, 3),
			Queries:   m.Queries,
		})
	}

	return enterpriseResponse{
		YearlyTotals: yearlyTotalsDTO{
			TotalQueries:   r.Yearly.TotalQueries,
			TotalEnergyKWh: roundTo(r.Yearly.TotalEnergyKWh, 3),
			TotalCarbonKg:  roundTo(r.Yearly.TotalCarbonKg, 2),
		},
		MonthlyBreakdown: monthly,
		PerEmployee: perEmployeeDTO{
			QueriesPerYear: r.PerEmployee.QueriesPerYear,
			EnergyKWh:      roundTo(r.PerEmployee.EnergyKWh, 3),
			CarbonKg:       roundTo(r.PerEmployee.CarbonKg, 2),
		},
		Equivalents: toEquivalentsDTO(r.Equivalents),
	}
}
