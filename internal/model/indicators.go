package model

// MarketIndicators holds the derived indicator summary for the latest bar.
type MarketIndicators struct {
	CurrentPrice  float64
	SMA50         float64
	SMA200        float64
	DailyRSI      float64
	ATR14         float64
	Volatility30d float64 // annualised, percent
	BollUpper     float64
	BollMiddle    float64
	BollLower     float64
	High52w       float64
	Low52w        float64
	High30d       float64
	Low30d        float64
	Position52w   float64 // 0.0 ~ 1.0
}
