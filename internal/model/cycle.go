package model

import (
	"encoding/json"
	"time"
)

// PointKind distinguishes market tops from bottoms.
type PointKind string

const (
	Peak   PointKind = "peak"
	Trough PointKind = "trough"
)

// Opposite returns the other kind.
func (k PointKind) Opposite() PointKind {
	if k == Peak {
		return Trough
	}
	return Peak
}

// PointSource records how a cycle point entered the timeline.
type PointSource string

const (
	SourceKnown    PointSource = "known"    // hand-curated historical anchor
	SourceDetected PointSource = "detected" // found by the extremum scanner
)

// PreSeriesIndex marks a point older than the available price data.
// Such points keep their curated price and sort before all resolved points.
const PreSeriesIndex = -1

// Phase is the market's current direction.
type Phase string

const (
	PhaseBull Phase = "bull"
	PhaseBear Phase = "bear"
)

// Projection confidence tiers.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// CyclePoint is a confirmed or provisional market turning point.
// Price is the bar's high for a peak and its low for a trough.
type CyclePoint struct {
	Kind   PointKind
	Date   time.Time
	Price  float64
	Index  int // index into the daily series, or PreSeriesIndex
	Source PointSource
}

// PreSeries reports whether the point predates the available series.
func (p CyclePoint) PreSeries() bool { return p.Index < 0 }

// SameAs reports date+kind identity, used for timeline deduplication.
func (p CyclePoint) SameAs(o CyclePoint) bool {
	return p.Kind == o.Kind && p.Date.Equal(o.Date)
}

func (p CyclePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   PointKind   `json:"type"`
		Date   string      `json:"date"`
		Price  float64     `json:"price"`
		Index  int         `json:"index"`
		Source PointSource `json:"source"`
	}{p.Kind, p.Date.UTC().Format("2006-01-02"), p.Price, p.Index, p.Source})
}

// Cycle is a directed leg between two adjacent turning points.
// Direction follows the starting point's kind: trough opens a bull leg,
// peak opens a bear leg.
type Cycle struct {
	From          CyclePoint `json:"from"`
	To            CyclePoint `json:"to"`
	DurationDays  int        `json:"durationDays"`
	PriceChange   float64    `json:"priceChange"`
	PercentChange float64    `json:"percentChange"`
	Direction     Phase      `json:"direction"`
	Unreliable    bool       `json:"-"` // non-positive from-price; excluded from statistics
}

// Projection estimates when the next top or bottom is due.
type Projection struct {
	Date          time.Time
	DaysUntil     int // negative once the projected date has passed
	Confidence    string
	BasedOnCycles int
}

func (p Projection) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ProjectedDate string `json:"projectedDate"`
		DaysUntil     int    `json:"daysUntil"`
		Confidence    string `json:"confidence"`
		BasedOnCycles int    `json:"basedOnCycles"`
	}{p.Date.UTC().Format("2006-01-02"), p.DaysUntil, p.Confidence, p.BasedOnCycles})
}

// CycleAnalysis is the full output of the cycle engine.
type CycleAnalysis struct {
	Cycles             []Cycle      `json:"cycles"`
	AllPoints          []CyclePoint `json:"allPoints"`
	CurrentPeak        *CyclePoint  `json:"currentPeak"`
	CurrentTrough      *CyclePoint  `json:"currentTrough"`
	DaysSincePeak      int          `json:"daysSincePeak"`
	DaysSinceTrough    int          `json:"daysSinceTrough"`
	AvgBullDuration    float64      `json:"avgBullDuration"`
	AvgBearDuration    float64      `json:"avgBearDuration"`
	MedianBullReturn   float64      `json:"medianBullReturn"`
	MedianBearDrawdown float64      `json:"medianBearDrawdown"`
	CurrentPhase       Phase        `json:"currentPhase"`
	PhaseProgress      float64      `json:"phaseProgress"`
	ProjectedTop       *Projection  `json:"projectedTop"`
	ProjectedBottom    *Projection  `json:"projectedBottom"`
}
