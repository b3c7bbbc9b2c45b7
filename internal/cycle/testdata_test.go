package cycle

import (
	"time"

	"CycleSentinel/internal/model"
)

var testEpoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return testEpoch.AddDate(0, 0, n) }

// barsFromCloses builds one bar per close with a ±1% high/low spread.
func barsFromCloses(closes []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   day(i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

// flatBars builds bars where open, high, low and close all equal the close,
// for tests that need exact price arithmetic.
func flatBars(closes []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: day(i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return bars
}

// ramp appends a linear segment from the last value of dst (exclusive)
// to target over n steps.
func ramp(dst []float64, target float64, n int) []float64 {
	from := dst[len(dst)-1]
	for i := 1; i <= n; i++ {
		dst = append(dst, from+(target-from)*float64(i)/float64(n))
	}
	return dst
}

func testPoint(kind model.PointKind, d int, price float64, index int, src model.PointSource) model.CyclePoint {
	return model.CyclePoint{Kind: kind, Date: day(d), Price: price, Index: index, Source: src}
}

// riseFallCloses is the canonical synthetic series: 100 to 200 over 400
// days, then down to 120 over 150 more.
func riseFallCloses() []float64 {
	closes := []float64{100}
	closes = ramp(closes, 200, 400)
	closes = ramp(closes, 120, 149)
	return closes
}
