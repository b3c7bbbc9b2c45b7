package recorder

import "CycleSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAnalysis(_ *AnalysisSnapshot) error    { return nil }
func (n *NoopRecorder) RecordPhaseChange(_ *PhaseChangeEvent) error { return nil }
func (n *NoopRecorder) RecordStreaks(_ *StreakSnapshot) error       { return nil }
func (n *NoopRecorder) LastPhase(_ string) (model.Phase, error)     { return "", nil }
func (n *NoopRecorder) Close() error                                { return nil }
