package calculator

import (
	"errors"
	"math"

	"CycleSentinel/internal/model"
)

// CalculateATR returns the latest Wilder-smoothed average true range.
func CalculateATR(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period {
		return 0, errors.New("not enough data for ATR calculation")
	}

	ranges := make([]float64, len(bars))
	ranges[0] = bars[0].High - bars[0].Low
	for i := 1; i < len(bars); i++ {
		prevClose := bars[i-1].Close
		ranges[i] = math.Max(bars[i].High-bars[i].Low,
			math.Max(math.Abs(bars[i].High-prevClose), math.Abs(bars[i].Low-prevClose)))
	}

	atr := 0.0
	for i := 0; i < period; i++ {
		atr += ranges[i]
	}
	atr /= float64(period)

	for i := period; i < len(ranges); i++ {
		atr = (atr*float64(period-1) + ranges[i]) / float64(period)
	}
	return atr, nil
}
