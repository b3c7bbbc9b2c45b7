package cycle

import (
	"math"
	"time"

	"CycleSentinel/internal/model"
)

type legStats struct {
	avgBullDuration    float64
	avgBearDuration    float64
	medianBullReturn   float64
	medianBearDrawdown float64
	bullCount          int
	bearCount          int
}

// computeStats summarises completed historical legs. Unreliable legs and
// legs pre-series at both ends are excluded outright. Durations may still
// use one pre-series end because anchor dates are exact even when their
// prices are approximate. Returns use the median over legs whose endpoints
// both carry real series data: early low-denominator percentage moves skew
// a mean badly, and curated prices are only approximations.
func computeStats(cycles []model.Cycle) legStats {
	var s legStats
	var bullDur, bearDur, bullRet, bearRet []float64

	for _, c := range cycles {
		if c.Unreliable || (c.From.PreSeries() && c.To.PreSeries()) {
			continue
		}
		fullyResolved := !c.From.PreSeries() && !c.To.PreSeries()
		usableReturn := fullyResolved && c.PercentChange != 0 &&
			!math.IsNaN(c.PercentChange) && !math.IsInf(c.PercentChange, 0)

		if c.Direction == model.PhaseBull {
			s.bullCount++
			bullDur = append(bullDur, float64(c.DurationDays))
			if usableReturn {
				bullRet = append(bullRet, c.PercentChange)
			}
		} else {
			s.bearCount++
			bearDur = append(bearDur, float64(c.DurationDays))
			if usableReturn {
				bearRet = append(bearRet, c.PercentChange)
			}
		}
	}

	s.avgBullDuration = mean(bullDur)
	s.avgBearDuration = mean(bearDur)
	s.medianBullReturn = median(bullRet)
	s.medianBearDrawdown = median(bearRet)
	return s
}

// project chains the current direction's average duration from the phase
// anchor, then the other direction's average on top of that. The nearer
// projection gets the more generous confidence tier; days-until goes
// negative once a projected date has passed, which is informational,
// not an error.
func project(phase model.Phase, anchor model.CyclePoint, today time.Time, s legStats) (top, bottom *model.Projection) {
	bullDays := int(math.Round(s.avgBullDuration))
	bearDays := int(math.Round(s.avgBearDuration))

	if phase == model.PhaseBull {
		topDate := anchor.Date.AddDate(0, 0, bullDays)
		bottomDate := topDate.AddDate(0, 0, bearDays)
		top = &model.Projection{
			Date:          topDate,
			DaysUntil:     signedDays(today, topDate),
			Confidence:    nearConfidence(s.bullCount),
			BasedOnCycles: s.bullCount,
		}
		bottom = &model.Projection{
			Date:          bottomDate,
			DaysUntil:     signedDays(today, bottomDate),
			Confidence:    farConfidence(s.bearCount),
			BasedOnCycles: s.bearCount,
		}
		return top, bottom
	}

	bottomDate := anchor.Date.AddDate(0, 0, bearDays)
	topDate := bottomDate.AddDate(0, 0, bullDays)
	bottom = &model.Projection{
		Date:          bottomDate,
		DaysUntil:     signedDays(today, bottomDate),
		Confidence:    nearConfidence(s.bearCount),
		BasedOnCycles: s.bearCount,
	}
	top = &model.Projection{
		Date:          topDate,
		DaysUntil:     signedDays(today, topDate),
		Confidence:    farConfidence(s.bullCount),
		BasedOnCycles: s.bullCount,
	}
	return top, bottom
}

func nearConfidence(n int) string {
	switch {
	case n >= 3:
		return model.ConfidenceHigh
	case n >= 2:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func farConfidence(n int) string {
	if n >= 3 {
		return model.ConfidenceMedium
	}
	return model.ConfidenceLow
}
