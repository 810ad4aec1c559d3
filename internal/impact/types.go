package impact

import (
	"fmt"
	"strconv"
	"strings"

	"backend/internal/carbon"
)

// 设备类型枚举
const (
	DeviceDesktop = "Desktop"
	DeviceLaptop  = "Laptop"
	DeviceServer  = "Server"
)

// NormalizeDeviceType 校验并归一化设备类型
func NormalizeDeviceType(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desktop":
		return DeviceDesktop, nil
	case "laptop":
		return DeviceLaptop, nil
	case "server":
		return DeviceServer, nil
	default:
		return "", fmt.Errorf("设备类型 %q 无效，可选值: Desktop, Laptop, Server", s)
	}
}

// Location 数值化的地理坐标
type Location struct {
	Lat float64
	Lon float64
}

// ParseLocation 解析 "lat, lon" 文本坐标并校验取值范围
// 位置字段由前端以文本传入，解析与范围校验属于核心职责
func ParseLocation(s string) (Location, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Location{}, fmt.Errorf("位置格式无效，期望 \"纬度, 经度\"，实际: %q", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Location{}, fmt.Errorf("纬度无法解析: %q", parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Location{}, fmt.Errorf("经度无法解析: %q", parts[1])
	}

	if lat < -90 || lat > 90 {
		return Location{}, fmt.Errorf("纬度 %v 超出 [-90, 90] 范围", lat)
	}
	if lon < -180 || lon > 180 {
		return Location{}, fmt.Errorf("经度 %v 超出 [-180, 180] 范围", lon)
	}

	return Location{Lat: lat, Lon: lon}, nil
}

// Request 单次碳影响计算请求
type Request struct {
	Prompt     string // 提示词原文
	ModelID    string // 模型名，必须存在于目录
	DeviceType string // Desktop | Laptop | Server
	HasGPU     bool   // 是否有可用 GPU
	Location   string // "lat, lon" 文本坐标
}

// EnterpriseRequest 企业级碳影响计算请求
type EnterpriseRequest struct {
	Request
	QueriesPerUserPerDay int // 每人每天请求数，≥1
	NumberOfEmployees    int // 员工数，≥1
}

// Equivalents 日常量级换算
type Equivalents struct {
	PhoneCharges float64 // 等效手机充电次数
	LEDHours     float64 // 等效 LED 灯泡点亮小时数
	KmCar        float64 // 等效燃油车行驶公里数
}

// PersonalResult 单次请求的碳影响结果
type PersonalResult struct {
	EnergyKWh   float64          // 能耗 kWh
	CarbonGCO2  float64          // 位置校正后的碳排放 gCO2
	Equivalents Equivalents      // 日常量级换算
	Intensity   carbon.Intensity // 使用的碳强度（含降级标记，供观测）
}

// MonthEntry 单月用量分摊
type MonthEntry struct {
	Queries   int64   // 当月请求数
	EnergyKWh float64 // 当月能耗 kWh
	CarbonKg  float64 // 当月碳排放 kg
}

// YearlyTotals 年度汇总
type YearlyTotals struct {
	TotalQueries   int64   // 年度总请求数
	TotalEnergyKWh float64 // 年度总能耗 kWh
	TotalCarbonKg  float64 // 年度总碳排放 kg
}

// PerEmployee 人均指标
type PerEmployee struct {
	QueriesPerYear int64   // 人均年请求数
	EnergyKWh      float64 // 人均年能耗 kWh
	CarbonKg       float64 // 人均年碳排放 kg
}

// EnterpriseResult 企业级碳影响结果
type EnterpriseResult struct {
	Yearly      YearlyTotals // 年度汇总
	Monthly     []MonthEntry // 12 个月的分摊明细
	PerEmployee PerEmployee  // 人均指标
	Equivalents Equivalents  // 年度量级的日常换算
}
