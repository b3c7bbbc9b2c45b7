package cycle

import (
	"testing"

	"CycleSentinel/internal/model"
)

func TestDetectPoints_SeriesTooShort(t *testing.T) {
	closes := make([]float64, 0, 239)
	closes = append(closes, 100)
	closes = ramp(closes, 200, 238)
	pts := DetectPoints(barsFromCloses(closes), nil, DefaultParams())
	if len(pts) != 0 {
		t.Errorf("series shorter than twice the window should yield nothing, got %d points", len(pts))
	}
}

func TestDetectPoints_FlatSeries(t *testing.T) {
	// 600 flat-ish bars: nothing can meet the 30% prominence bar.
	closes := make([]float64, 600)
	for i := range closes {
		closes[i] = 100 + float64(i%2) // ±1 wiggle
	}
	pts := DetectPoints(barsFromCloses(closes), nil, DefaultParams())
	if len(pts) != 0 {
		t.Errorf("flat series should yield nothing, got %d points", len(pts))
	}
}

func TestDetectPoints_SingleRiseFallPeak(t *testing.T) {
	bars := barsFromCloses(riseFallCloses())
	pts := DetectPoints(bars, nil, DefaultParams())

	if len(pts) != 1 {
		t.Fatalf("expected exactly one detected point, got %d: %v", len(pts), pts)
	}
	p := pts[0]
	if p.Kind != model.Peak {
		t.Errorf("expected a peak, got %v", p.Kind)
	}
	if p.Index != 400 {
		t.Errorf("peak index: got %d, want 400", p.Index)
	}
	if p.Price < 199 || p.Price > 203 {
		t.Errorf("peak price: got %.2f, want ~200", p.Price)
	}
	if p.Source != model.SourceDetected {
		t.Errorf("source: got %v, want detected", p.Source)
	}
}

func TestDetectPoints_ExpectationSeededByAnchor(t *testing.T) {
	// The same rise/fall shape, but the last anchor is already a peak:
	// the scanner must not accept another peak first.
	bars := barsFromCloses(riseFallCloses())
	anchor := testPoint(model.Peak, -300, 150, model.PreSeriesIndex, model.SourceKnown)
	pts := DetectPoints(bars, &anchor, DefaultParams())
	for _, p := range pts {
		if p.Kind == model.Peak {
			t.Fatalf("scanner accepted a peak while expecting a trough: %+v", p)
		}
	}
}

func TestDetectPoints_StartsAfterAnchorSeparation(t *testing.T) {
	bars := barsFromCloses(riseFallCloses())
	// In-series trough anchor at index 300: scanning may only start at
	// index 500, past the real peak at 400, so nothing is found.
	anchor := testPoint(model.Trough, 300, bars[300].Low, 300, model.SourceKnown)
	pts := DetectPoints(bars, &anchor, DefaultParams())
	if len(pts) != 0 {
		t.Errorf("expected no detections inside the separation window, got %d", len(pts))
	}
}

func TestDetectPoints_AlternatingKinds(t *testing.T) {
	// Two full swings, each long and deep enough to clear separation
	// and prominence.
	closes := []float64{100}
	closes = ramp(closes, 300, 250) // peak around day 250
	closes = ramp(closes, 90, 250)  // trough around day 500
	closes = ramp(closes, 280, 250) // peak around day 750
	closes = ramp(closes, 100, 250) // tail so the window fits
	bars := barsFromCloses(closes)
	pts := DetectPoints(bars, nil, DefaultParams())

	if len(pts) < 2 {
		t.Fatalf("expected at least two detections, got %d", len(pts))
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].Kind == pts[i-1].Kind {
			t.Errorf("adjacent detections share kind %v at %d", pts[i].Kind, i)
		}
		if pts[i].Index <= pts[i-1].Index {
			t.Errorf("detections out of order: %d then %d", pts[i-1].Index, pts[i].Index)
		}
		if daysBetween(pts[i].Date, pts[i-1].Date) < DefaultParams().MinSeparationDays {
			t.Errorf("detections closer than the minimum separation")
		}
	}
}
