package cycle

import (
	"time"

	"CycleSentinel/internal/model"
)

// phaseState is the classifier's verdict on the still-open phase.
type phaseState struct {
	phase         model.Phase
	anchor        model.CyclePoint // leg-start reference for duration math
	currentPeak   model.CyclePoint
	currentTrough model.CyclePoint
	legs          []model.Cycle      // provisional leg(s) through today
	points        []model.CyclePoint // points to append to the timeline
	reversed      bool
}

// classifyPhase decides whether the market is still in the phase implied
// by the last confirmed point or has already reversed. A one-day wiggle is
// not a reversal: the phase flips early only once the pullback from the
// running extremum reaches ReversalThreshold, which fires long before the
// scanner's prominence/separation rule would confirm a permanent point.
func classifyPhase(bars []model.OHLCV, last model.CyclePoint, p Params) phaseState {
	latestClose := bars[len(bars)-1].Close

	if last.Kind == model.Trough {
		runningPeak := runningPeakSince(bars, last.Date)
		drawdown := 0.0
		if runningPeak.Price > 0 {
			drawdown = (runningPeak.Price - latestClose) / runningPeak.Price
		}
		if drawdown >= p.ReversalThreshold {
			// Already topped and rolled over: the running peak becomes the
			// confirmed top and the new phase anchor.
			runningTrough := runningTroughSince(bars, runningPeak.Date)
			return phaseState{
				phase:         model.PhaseBear,
				anchor:        runningPeak,
				currentPeak:   runningPeak,
				currentTrough: runningTrough,
				legs:          []model.Cycle{newCycle(last, runningPeak), newCycle(runningPeak, runningTrough)},
				points:        []model.CyclePoint{runningPeak, runningTrough},
				reversed:      true,
			}
		}
		return phaseState{
			phase:         model.PhaseBull,
			anchor:        last,
			currentPeak:   runningPeak, // provisional, unconfirmed
			currentTrough: last,
			legs:          []model.Cycle{newCycle(last, runningPeak)},
			points:        []model.CyclePoint{runningPeak},
		}
	}

	runningTrough := runningTroughSince(bars, last.Date)
	rally := 0.0
	if runningTrough.Price > 0 {
		rally = (latestClose - runningTrough.Price) / runningTrough.Price
	}
	if rally >= p.ReversalThreshold {
		runningPeak := runningPeakSince(bars, runningTrough.Date)
		return phaseState{
			phase:         model.PhaseBull,
			anchor:        runningTrough,
			currentPeak:   runningPeak,
			currentTrough: runningTrough,
			legs:          []model.Cycle{newCycle(last, runningTrough), newCycle(runningTrough, runningPeak)},
			points:        []model.CyclePoint{runningTrough, runningPeak},
			reversed:      true,
		}
	}
	return phaseState{
		phase:         model.PhaseBear,
		anchor:        last,
		currentPeak:   last,
		currentTrough: runningTrough, // provisional, unconfirmed
		legs:          []model.Cycle{newCycle(last, runningTrough)},
		points:        []model.CyclePoint{runningTrough},
	}
}

// runningPeakSince returns the highest-high bar on or after the given date.
func runningPeakSince(bars []model.OHLCV, since time.Time) model.CyclePoint {
	start := findBarIndex(bars, since)
	best := start
	for i := start + 1; i < len(bars); i++ {
		if bars[i].High > bars[best].High {
			best = i
		}
	}
	return model.CyclePoint{
		Kind:   model.Peak,
		Date:   bars[best].Time,
		Price:  bars[best].High,
		Index:  best,
		Source: model.SourceDetected,
	}
}

// runningTroughSince returns the lowest-low bar on or after the given date.
func runningTroughSince(bars []model.OHLCV, since time.Time) model.CyclePoint {
	start := findBarIndex(bars, since)
	best := start
	for i := start + 1; i < len(bars); i++ {
		if bars[i].Low < bars[best].Low {
			best = i
		}
	}
	return model.CyclePoint{
		Kind:   model.Trough,
		Date:   bars[best].Time,
		Price:  bars[best].Low,
		Index:  best,
		Source: model.SourceDetected,
	}
}
