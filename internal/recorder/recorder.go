package recorder

import "CycleSentinel/internal/model"

// AnalysisSnapshot holds one analysis run for one asset.
type AnalysisSnapshot struct {
	RunID    string
	Asset    string
	Price    float64
	Analysis *model.CycleAnalysis
}

// PhaseChangeEvent records a detected phase flip.
type PhaseChangeEvent struct {
	RunID     string
	Asset     string
	PrevPhase model.Phase
	NextPhase model.Phase
	Price     float64
}

// StreakSnapshot holds streak statistics for one asset at one run.
type StreakSnapshot struct {
	RunID string
	Asset string
	Stats *model.StreakStats
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordAnalysis(snap *AnalysisSnapshot) error
	RecordPhaseChange(evt *PhaseChangeEvent) error
	RecordStreaks(snap *StreakSnapshot) error
	// LastPhase returns the most recent recorded phase for the asset,
	// or "" when none exists yet.
	LastPhase(asset string) (model.Phase, error)
	Close() error
}
