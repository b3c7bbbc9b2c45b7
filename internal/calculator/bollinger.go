package calculator

import (
	"errors"
	"math"

	"CycleSentinel/internal/model"
)

// CalculateBollinger returns the latest Bollinger bands over the period:
// the SMA plus/minus multiplier population standard deviations.
func CalculateBollinger(bars []model.OHLCV, period int, multiplier float64) (upper, middle, lower float64, err error) {
	if period <= 0 {
		return 0, 0, 0, errors.New("period must be positive")
	}
	if len(bars) < period {
		return 0, 0, 0, errors.New("not enough data for Bollinger calculation")
	}

	closes := extractCloses(bars)
	window := closes[len(closes)-period:]

	mean := 0.0
	for _, c := range window {
		mean += c
	}
	mean /= float64(period)

	variance := 0.0
	for _, c := range window {
		variance += (c - mean) * (c - mean)
	}
	variance /= float64(period)
	std := math.Sqrt(variance)

	return mean + multiplier*std, mean, mean - multiplier*std, nil
}
