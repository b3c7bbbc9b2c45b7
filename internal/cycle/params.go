package cycle

// Params tunes the detection and phase-classification heuristics.
// The thresholds are empirical and still being tuned per asset class,
// so they are configuration rather than constants.
type Params struct {
	WindowDays        int     // half-window for the local extremum test
	Prominence        float64 // min relative distance to the worst price in the window
	MinSeparationDays int     // min calendar days between accepted points
	ReversalThreshold float64 // drawdown/rally fraction that flips the phase early
	MinSeriesLen      int     // bars required before any analysis is attempted
	MaxPhaseProgress  float64 // cap on elapsed/average phase duration
}

// DefaultParams returns the tuned values for daily crypto series.
func DefaultParams() Params {
	return Params{
		WindowDays:        120,
		Prominence:        0.30,
		MinSeparationDays: 200,
		ReversalThreshold: 0.25,
		MinSeriesLen:      30,
		MaxPhaseProgress:  1.5,
	}
}
