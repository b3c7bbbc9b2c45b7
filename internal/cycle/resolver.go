package cycle

import "CycleSentinel/internal/model"

// ResolveKnownPoints maps curated anchors onto the live series.
// Anchors dated after the last bar are dropped. Anchors predating the
// series keep their curated price and the pre-series index. The rest
// snap to the first bar at or after their date and take that bar's
// actual high (peak) or low (trough), correcting the curated
// approximation once real data exists.
func ResolveKnownPoints(bars []model.OHLCV, known []model.CyclePoint) []model.CyclePoint {
	if len(bars) == 0 {
		out := make([]model.CyclePoint, len(known))
		copy(out, known)
		return out
	}

	first := bars[0].Time
	last := bars[len(bars)-1].Time

	resolved := make([]model.CyclePoint, 0, len(known))
	for _, p := range known {
		if p.Date.After(last) {
			continue
		}
		if p.Date.Before(first) {
			p.Index = model.PreSeriesIndex
			resolved = append(resolved, p)
			continue
		}
		idx := findBarIndex(bars, p.Date)
		p.Index = idx
		if p.Kind == model.Peak {
			p.Price = bars[idx].High
		} else {
			p.Price = bars[idx].Low
		}
		resolved = append(resolved, p)
	}
	return resolved
}
