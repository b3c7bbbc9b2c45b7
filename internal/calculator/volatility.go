package calculator

import (
	"errors"
	"math"

	"CycleSentinel/internal/model"
)

// CalculateVolatility returns the latest annualized historical
// volatility as a percentage: the sample standard deviation of log
// returns over the window, scaled by sqrt(365). Crypto trades every
// day, hence 365 rather than the equity 252.
func CalculateVolatility(bars []model.OHLCV, window int) (float64, error) {
	if window <= 1 {
		return 0, errors.New("window must be greater than 1")
	}
	if len(bars) < window+1 {
		return 0, errors.New("not enough data for volatility calculation")
	}

	returns := make([]float64, 0, window)
	for i := len(bars) - window; i < len(bars); i++ {
		prev := bars[i-1].Close
		if prev <= 0 || bars[i].Close <= 0 {
			return 0, errors.New("non-positive close in volatility window")
		}
		returns = append(returns, math.Log(bars[i].Close/prev))
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * math.Sqrt(365) * 100, nil
}
