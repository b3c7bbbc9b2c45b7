package calculator

import (
	"log"

	"CycleSentinel/internal/model"
)

// Compute derives the full indicator set from a fetched price series.
// Individual indicator failures degrade to neutral defaults instead of
// failing the whole report.
func Compute(series *model.PriceSeries) *model.MarketIndicators {
	bars := series.DailyBars
	price := series.CurrentPrice
	ind := &model.MarketIndicators{CurrentPrice: price}

	if ma, err := CalculateSMA50(bars); err != nil {
		log.Printf("[WARN] SMA50 calculation failed: %v, using current price", err)
		ind.SMA50 = price
	} else {
		ind.SMA50 = ma
	}

	if ma, err := CalculateSMA200(bars); err != nil {
		log.Printf("[WARN] SMA200 calculation failed: %v, using current price", err)
		ind.SMA200 = price
	} else {
		ind.SMA200 = ma
	}

	if rsi, err := CalculateRSI(bars, 14); err != nil {
		log.Printf("[WARN] RSI calculation failed: %v, defaulting to 50", err)
		ind.DailyRSI = 50
	} else {
		ind.DailyRSI = rsi
	}

	if atr, err := CalculateATR(bars, 14); err != nil {
		log.Printf("[WARN] ATR calculation failed: %v", err)
	} else {
		ind.ATR14 = atr
	}

	if vol, err := CalculateVolatility(bars, 30); err != nil {
		log.Printf("[WARN] volatility calculation failed: %v", err)
	} else {
		ind.Volatility30d = vol
	}

	if up, mid, low, err := CalculateBollinger(bars, 20, 2); err != nil {
		log.Printf("[WARN] Bollinger calculation failed: %v", err)
	} else {
		ind.BollUpper = up
		ind.BollMiddle = mid
		ind.BollLower = low
	}

	if h, l, err := Calculate52WeekRange(bars); err != nil {
		log.Printf("[WARN] 52-week range calculation failed: %v", err)
		ind.High52w = price
		ind.Low52w = price
	} else {
		ind.High52w = h
		ind.Low52w = l
	}

	if h, l, err := Calculate30DayRange(bars); err != nil {
		log.Printf("[WARN] 30-day range calculation failed: %v", err)
		ind.High30d = price
		ind.Low30d = price
	} else {
		ind.High30d = h
		ind.Low30d = l
	}

	if pos, err := Calculate52WeekPosition(price, ind.High52w, ind.Low52w); err != nil {
		log.Printf("[WARN] 52-week position calculation failed: %v", err)
		ind.Position52w = 0.5
	} else {
		ind.Position52w = pos
	}

	return ind
}
