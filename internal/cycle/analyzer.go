package cycle

import (
	"math"
	"sort"
	"time"

	"CycleSentinel/internal/model"
)

// Analyze recomputes the full cycle picture from scratch on every call.
// It is a pure function of its inputs: "today" is the last bar's date,
// never the wall clock, so identical inputs yield identical results.
// It never fails; degenerate input yields a nil or minimal result.
func Analyze(bars []model.OHLCV, known []model.CyclePoint, p Params) *model.CycleAnalysis {
	if len(bars) < p.MinSeriesLen {
		return nil
	}
	today := bars[len(bars)-1].Time

	resolved := ResolveKnownPoints(bars, known)
	var lastKnown *model.CyclePoint
	if len(resolved) > 0 {
		lastKnown = &resolved[len(resolved)-1]
	}

	detected := SanitizePoints(lastKnown, DetectPoints(bars, lastKnown, p))

	all := make([]model.CyclePoint, 0, len(resolved)+len(detected)+2)
	all = append(all, resolved...)
	all = append(all, detected...)
	sortPoints(all)

	if len(all) == 0 {
		return &model.CycleAnalysis{
			Cycles:       []model.Cycle{},
			AllPoints:    all,
			CurrentPhase: model.PhaseBear,
		}
	}

	cycles := BuildCycles(all)
	stats := computeStats(cycles)

	state := classifyPhase(bars, all[len(all)-1], p)

	// Extend the picture through today with the provisional leg(s).
	cycles = append(cycles, state.legs...)
	for _, pt := range state.points {
		all = appendPoint(all, pt)
	}

	avgDuration := stats.avgBullDuration
	if state.phase == model.PhaseBear {
		avgDuration = stats.avgBearDuration
	}
	progress := 0.0
	if avgDuration > 0 {
		progress = math.Min(float64(daysBetween(today, state.anchor.Date))/avgDuration, p.MaxPhaseProgress)
	}

	top, bottom := project(state.phase, state.anchor, today, stats)

	currentPeak := state.currentPeak
	currentTrough := state.currentTrough
	res := &model.CycleAnalysis{
		Cycles:             cycles,
		AllPoints:          all,
		CurrentPeak:        &currentPeak,
		CurrentTrough:      &currentTrough,
		DaysSincePeak:      daysBetween(today, currentPeak.Date),
		DaysSinceTrough:    daysBetween(today, currentTrough.Date),
		AvgBullDuration:    stats.avgBullDuration,
		AvgBearDuration:    stats.avgBearDuration,
		MedianBullReturn:   stats.medianBullReturn,
		MedianBearDrawdown: stats.medianBearDrawdown,
		CurrentPhase:       state.phase,
		PhaseProgress:      progress,
		ProjectedTop:       top,
		ProjectedBottom:    bottom,
	}
	sanitizeResult(res)
	return res
}

// sortPoints orders the merged timeline: pre-series points always come
// first, among themselves by date; resolved points by series index.
func sortPoints(points []model.CyclePoint) {
	sort.SliceStable(points, func(i, j int) bool {
		a, b := points[i], points[j]
		switch {
		case a.PreSeries() && b.PreSeries():
			return a.Date.Before(b.Date)
		case a.PreSeries():
			return true
		case b.PreSeries():
			return false
		default:
			return a.Index < b.Index
		}
	})
}

// appendPoint adds a provisional point unless an identical date+kind
// entry is already present.
func appendPoint(points []model.CyclePoint, pt model.CyclePoint) []model.CyclePoint {
	for _, p := range points {
		if p.SameAs(pt) {
			return points
		}
	}
	return append(points, pt)
}

// sanitizeResult replaces non-finite values with 0 before the result
// leaves the engine.
func sanitizeResult(res *model.CycleAnalysis) {
	res.AvgBullDuration = finiteOrZero(res.AvgBullDuration)
	res.AvgBearDuration = finiteOrZero(res.AvgBearDuration)
	res.MedianBullReturn = finiteOrZero(res.MedianBullReturn)
	res.MedianBearDrawdown = finiteOrZero(res.MedianBearDrawdown)
	res.PhaseProgress = finiteOrZero(res.PhaseProgress)
	for i := range res.Cycles {
		res.Cycles[i].PriceChange = finiteOrZero(res.Cycles[i].PriceChange)
		res.Cycles[i].PercentChange = finiteOrZero(res.Cycles[i].PercentChange)
	}
	for i := range res.AllPoints {
		res.AllPoints[i].Price = finiteOrZero(res.AllPoints[i].Price)
	}
}

// Today returns the analysis reference date for a series, the last bar's
// calendar day. Exposed so callers report the same "as of" date the
// engine used.
func Today(bars []model.OHLCV) time.Time {
	if len(bars) == 0 {
		return time.Time{}
	}
	return bars[len(bars)-1].Time
}
