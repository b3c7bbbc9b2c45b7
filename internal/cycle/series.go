package cycle

import (
	"math"
	"sort"
	"time"

	"CycleSentinel/internal/model"
)

// findBarIndex returns the first index whose bar date is not before the
// given date, or the last index when every bar predates it.
func findBarIndex(bars []model.OHLCV, date time.Time) int {
	for i := range bars {
		if !bars[i].Time.Before(date) {
			return i
		}
	}
	return len(bars) - 1
}

// daysBetween returns the absolute number of calendar days between two dates.
func daysBetween(a, b time.Time) int {
	d := b.Sub(a)
	if d < 0 {
		d = -d
	}
	return int(math.Round(d.Hours() / 24))
}

// signedDays returns the calendar days from one date to another,
// negative when "to" lies in the past relative to "from".
func signedDays(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// finiteOrZero guards every derived ratio on its way out of the engine.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
