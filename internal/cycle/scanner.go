package cycle

import "CycleSentinel/internal/model"

// DetectPoints scans the series after the last resolved anchor for new
// confirmed turning points. A candidate must be the extremum of its
// ±WindowDays neighbourhood, stand at least Prominence away from the worst
// price in that window, and sit MinSeparationDays after the previously
// accepted point. Accepted kinds alternate, seeded by the opposite of the
// anchor's kind; with no anchor either kind may come first. The window
// must fit on both sides, so a series shorter than twice the window
// yields nothing.
func DetectPoints(bars []model.OHLCV, last *model.CyclePoint, p Params) []model.CyclePoint {
	var detected []model.CyclePoint
	w := p.WindowDays
	if len(bars) < 2*w {
		return detected
	}

	start := w
	if last != nil && last.Index >= 0 {
		if s := last.Index + p.MinSeparationDays; s > start {
			start = s
		}
	}
	end := len(bars) - w
	if start >= end {
		return detected
	}

	var expect model.PointKind // empty until seeded: either kind may fire
	if last != nil {
		expect = last.Kind.Opposite()
	}

	for i := start; i < end; i++ {
		lo, hi := i-w, i+w
		if lo < 0 {
			lo = 0
		}
		if hi > len(bars)-1 {
			hi = len(bars) - 1
		}

		if expect != model.Trough && isWindowHigh(bars, i, lo, hi) {
			windowLow := lowestLow(bars, lo, hi)
			if windowLow > 0 && (bars[i].High-windowLow)/windowLow >= p.Prominence {
				if separated(bars, i, detected, last, p.MinSeparationDays) {
					detected = append(detected, model.CyclePoint{
						Kind:   model.Peak,
						Date:   bars[i].Time,
						Price:  bars[i].High,
						Index:  i,
						Source: model.SourceDetected,
					})
					expect = model.Trough
				}
			}
		}

		if expect != model.Peak && isWindowLow(bars, i, lo, hi) {
			windowHigh := highestHigh(bars, lo, hi)
			if bars[i].Low > 0 && (windowHigh-bars[i].Low)/bars[i].Low >= p.Prominence {
				if separated(bars, i, detected, last, p.MinSeparationDays) {
					detected = append(detected, model.CyclePoint{
						Kind:   model.Trough,
						Date:   bars[i].Time,
						Price:  bars[i].Low,
						Index:  i,
						Source: model.SourceDetected,
					})
					expect = model.Peak
				}
			}
		}
	}

	return detected
}

func isWindowHigh(bars []model.OHLCV, i, lo, hi int) bool {
	for j := lo; j <= hi; j++ {
		if j != i && bars[j].High > bars[i].High {
			return false
		}
	}
	return true
}

func isWindowLow(bars []model.OHLCV, i, lo, hi int) bool {
	for j := lo; j <= hi; j++ {
		if j != i && bars[j].Low < bars[i].Low {
			return false
		}
	}
	return true
}

func lowestLow(bars []model.OHLCV, lo, hi int) float64 {
	min := bars[lo].Low
	for j := lo + 1; j <= hi; j++ {
		if bars[j].Low < min {
			min = bars[j].Low
		}
	}
	return min
}

func highestHigh(bars []model.OHLCV, lo, hi int) float64 {
	max := bars[lo].High
	for j := lo + 1; j <= hi; j++ {
		if bars[j].High > max {
			max = bars[j].High
		}
	}
	return max
}

// separated checks the candidate against the most recently accepted point,
// falling back to the anchor when nothing has been detected yet.
func separated(bars []model.OHLCV, i int, detected []model.CyclePoint, anchor *model.CyclePoint, minDays int) bool {
	var prev *model.CyclePoint
	if len(detected) > 0 {
		prev = &detected[len(detected)-1]
	} else if anchor != nil {
		prev = anchor
	}
	if prev == nil {
		return true
	}
	return daysBetween(bars[i].Time, prev.Date) >= minDays
}
