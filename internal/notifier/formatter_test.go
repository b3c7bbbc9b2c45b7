package notifier

import (
	"strings"
	"testing"
	"time"

	"CycleSentinel/internal/model"
)

func TestFormatCycleReport(t *testing.T) {
	peak := model.CyclePoint{Kind: model.Peak, Date: time.Date(2021, 11, 10, 0, 0, 0, 0, time.UTC), Price: 69000, Index: 1500, Source: model.SourceDetected}
	trough := model.CyclePoint{Kind: model.Trough, Date: time.Date(2022, 11, 21, 0, 0, 0, 0, time.UTC), Price: 15460, Index: 1876, Source: model.SourceKnown}
	a := &model.CycleAnalysis{
		AllPoints:          []model.CyclePoint{peak, trough},
		CurrentPeak:        &peak,
		CurrentTrough:      &trough,
		DaysSincePeak:      500,
		DaysSinceTrough:    120,
		AvgBullDuration:    1064,
		AvgBearDuration:    365,
		MedianBullReturn:   2100,
		MedianBearDrawdown: -77,
		CurrentPhase:       model.PhaseBull,
		PhaseProgress:      0.42,
		ProjectedTop: &model.Projection{
			Date: time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC), DaysUntil: 90,
			Confidence: model.ConfidenceHigh, BasedOnCycles: 3,
		},
	}
	got := FormatCycleReport("BTC", a, time.Date(2023, 3, 21, 0, 0, 0, 0, time.UTC))

	for _, want := range []string{
		"BTC Cycle Report", "2023-03-21",
		"🟢 BULL", "42% of a typical run",
		"$69,000", "2021-11-10", "500 days ago",
		"$15,460", "120 days ago",
		"1064 days", "+2100%", "-77%",
		"2025-10-20", "in 90 days", "high confidence, 3 cycles",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Bottom:") {
		t.Error("nil bottom projection should not render")
	}
}

func TestFormatCycleReport_Empty(t *testing.T) {
	got := FormatCycleReport("ETH", &model.CycleAnalysis{}, time.Now())
	if !strings.Contains(got, "Not enough history") {
		t.Errorf("empty analysis should say so:\n%s", got)
	}
	got = FormatCycleReport("ETH", nil, time.Now())
	if !strings.Contains(got, "Not enough history") {
		t.Errorf("nil analysis should say so:\n%s", got)
	}
}

func TestFormatProjection_Tenses(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	overdue := formatProjection(&model.Projection{Date: date, DaysUntil: -30, Confidence: model.ConfidenceLow, BasedOnCycles: 1})
	if !strings.Contains(overdue, "30 days overdue") {
		t.Errorf("overdue rendering: %s", overdue)
	}
	today := formatProjection(&model.Projection{Date: date, DaysUntil: 0, Confidence: model.ConfidenceLow, BasedOnCycles: 1})
	if !strings.Contains(today, "today") {
		t.Errorf("today rendering: %s", today)
	}
}

func TestFormatPhaseAlert(t *testing.T) {
	peak := model.CyclePoint{Kind: model.Peak, Date: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), Price: 73500}
	a := &model.CycleAnalysis{CurrentPeak: &peak}
	got := FormatPhaseAlert("BTC", model.PhaseBull, model.PhaseBear, a)
	for _, want := range []string{"BTC phase change", "🟢 BULL", "🔴 BEAR", "$73,500", "2024-03-14"} {
		if !strings.Contains(got, want) {
			t.Errorf("alert missing %q:\n%s", want, got)
		}
	}
}

func TestFormatStreakReport_NilStats(t *testing.T) {
	got := FormatStreakReport("BTC", nil)
	if !strings.Contains(got, "Not enough") {
		t.Errorf("nil stats should degrade gracefully:\n%s", got)
	}
}
