package calculator

import (
	"errors"

	"CycleSentinel/internal/model"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateSMA50 returns the 50-day simple moving average from daily bars.
func CalculateSMA50(dailyBars []model.OHLCV) (float64, error) {
	return CalculateSMA(extractCloses(dailyBars), 50)
}

// CalculateSMA200 returns the 200-day simple moving average from daily bars.
func CalculateSMA200(dailyBars []model.OHLCV) (float64, error) {
	return CalculateSMA(extractCloses(dailyBars), 200)
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
