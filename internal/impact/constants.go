package impact

// 日常量级换算常量
// 取值为校准细节，一经确定保持稳定，测试依赖常量固定而非具体数值
const (
	// PhoneChargeKWh 一次智能手机满充的耗电量 kWh
	PhoneChargeKWh = 0.012

	// LEDBulbKWhPerHour 一只 10W LED 灯泡点亮一小时的耗电量 kWh
	LEDBulbKWhPerHour = 0.01

	// CO2GramsPerKmCar 一辆燃油车行驶一公里的碳排放 gCO2
	CO2GramsPerKmCar = 120.0
)

// equivalentsFor 将能耗与碳排放换算为日常量级
func equivalentsFor(energyKWh, carbonGCO2 float64) Equivalents {
	return Equivalents{
		PhoneCharges: energyKWh / PhoneChargeKWh,
		LEDHours:     energyKWh / LEDBulbKWhPerHour,
		KmCar:        carbonGCO2 / CO2GramsPerKmCar,
	}
}
