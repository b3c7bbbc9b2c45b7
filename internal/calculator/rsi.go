package calculator

import (
	"errors"

	"CycleSentinel/internal/model"
)

// CalculateRSISeries returns one Wilder-smoothed RSI value per bar from
// index period onward, so len(result) == len(bars)-period. Fewer than
// period+1 bars cannot seed the smoothing and yield an empty series.
func CalculateRSISeries(bars []model.OHLCV, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	closes := extractCloses(bars)
	if len(closes) < period+1 {
		return nil, nil
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		if d := closes[i] - closes[i-1]; d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}

	// Seed with plain averages over the first period changes, then let
	// Wilder smoothing carry the rest.
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	series := make([]float64, 0, len(closes)-period)
	series = append(series, rsiValue(avgGain, avgLoss))
	for i := period + 1; i < len(closes); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)
		series = append(series, rsiValue(avgGain, avgLoss))
	}
	return series, nil
}

// CalculateRSI returns the RSI at the latest bar, or the neutral 50 when
// the series is too short to compute one.
func CalculateRSI(bars []model.OHLCV, period int) (float64, error) {
	series, err := CalculateRSISeries(bars, period)
	if err != nil {
		return 0, err
	}
	if len(series) == 0 {
		return 50.0, nil
	}
	return series[len(series)-1], nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
