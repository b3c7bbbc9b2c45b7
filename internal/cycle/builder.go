package cycle

import "CycleSentinel/internal/model"

// BuildCycles converts an ordered point list into directed legs. Adjacent
// same-kind pairs produce no leg; they should not survive sanitization but
// raw anchor-only sequences may still contain them.
func BuildCycles(points []model.CyclePoint) []model.Cycle {
	cycles := make([]model.Cycle, 0, len(points))
	for i := 0; i+1 < len(points); i++ {
		if points[i].Kind == points[i+1].Kind {
			continue
		}
		cycles = append(cycles, newCycle(points[i], points[i+1]))
	}
	return cycles
}

func newCycle(from, to model.CyclePoint) model.Cycle {
	c := model.Cycle{
		From:         from,
		To:           to,
		DurationDays: daysBetween(from.Date, to.Date),
		PriceChange:  to.Price - from.Price,
		Direction:    model.PhaseBear,
	}
	if from.Kind == model.Trough {
		c.Direction = model.PhaseBull
	}
	if from.Price > 0 {
		c.PercentChange = (to.Price - from.Price) / from.Price * 100
	} else {
		// No sane denominator; keep the leg but exclude it from statistics.
		c.Unreliable = true
	}
	return c
}
