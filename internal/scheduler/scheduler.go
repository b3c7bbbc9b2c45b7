package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"CycleSentinel/internal/calculator"
	"CycleSentinel/internal/collector"
	"CycleSentinel/internal/cycle"
	"CycleSentinel/internal/model"
	"CycleSentinel/internal/notifier"
	"CycleSentinel/internal/recorder"
	"CycleSentinel/internal/streak"
)

// Asset ties one tracked market to its data source and curated anchors.
type Asset struct {
	Name      string
	Collector *collector.Collector
	Known     []model.CyclePoint
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Assets    []Asset
	Params    cycle.Params
	Notifier  *notifier.TelegramNotifier
	Recorder  recorder.Recorder
	Ctx       context.Context
	startedAt time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, assets []Asset, p cycle.Params, tn *notifier.TelegramNotifier, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Assets:    assets,
		Params:    p,
		Notifier:  tn,
		Recorder:  rec,
		Ctx:       ctx,
		startedAt: time.Now(),
	}
}

// RegisterAll registers the daily phase watch and the weekly full report.
func (s *Scheduler) RegisterAll(dailyCron, weeklyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if _, err := s.Cron.AddFunc(weeklyCron, s.weeklyTask); err != nil {
		return fmt.Errorf("register weekly task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunWeeklyNow executes the weekly task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunWeeklyNow() {
	s.weeklyTask()
}

// dailyTask re-analyzes every asset and alerts only when the classified
// phase flipped since the last recorded run.
func (s *Scheduler) dailyTask() {
	log.Println("[INFO] running daily phase watch")
	runID := uuid.NewString()

	for _, asset := range s.Assets {
		series, analysis, err := s.analyzeAsset(asset)
		if err != nil {
			log.Printf("[ERROR] daily %s: %v", asset.Name, err)
			continue
		}
		if analysis == nil {
			log.Printf("[WARN] daily %s: series too short for analysis", asset.Name)
			continue
		}

		prev, err := s.Recorder.LastPhase(asset.Name)
		if err != nil {
			log.Printf("[ERROR] last phase %s: %v", asset.Name, err)
		}
		if prev != "" && prev != analysis.CurrentPhase {
			log.Printf("[INFO] %s phase change: %s -> %s", asset.Name, prev, analysis.CurrentPhase)
			s.trySend(notifier.FormatPhaseAlert(asset.Name, prev, analysis.CurrentPhase, analysis))
			if err := s.Recorder.RecordPhaseChange(&recorder.PhaseChangeEvent{
				RunID: runID, Asset: asset.Name,
				PrevPhase: prev, NextPhase: analysis.CurrentPhase,
				Price: series.CurrentPrice,
			}); err != nil {
				log.Printf("[ERROR] record phase change %s: %v", asset.Name, err)
			}
		}

		if err := s.Recorder.RecordAnalysis(&recorder.AnalysisSnapshot{
			RunID: runID, Asset: asset.Name, Price: series.CurrentPrice, Analysis: analysis,
		}); err != nil {
			log.Printf("[ERROR] record analysis %s: %v", asset.Name, err)
		}
	}
}

// weeklyTask sends the full cycle, indicator and streak report for
// every asset.
func (s *Scheduler) weeklyTask() {
	log.Println("[INFO] running weekly report")
	runID := uuid.NewString()

	for _, asset := range s.Assets {
		report, err := s.buildReport(runID, asset, true)
		if err != nil {
			log.Printf("[ERROR] weekly %s: %v", asset.Name, err)
			s.trySend(fmt.Sprintf("❌ %s weekly report failed: %v", asset.Name, err))
			continue
		}
		s.trySend(report)
	}
}

// buildReport assembles the full report for one asset, recording
// snapshots along the way when record is set.
func (s *Scheduler) buildReport(runID string, asset Asset, record bool) (string, error) {
	series, analysis, err := s.analyzeAsset(asset)
	if err != nil {
		return "", err
	}

	asOf := cycle.Today(series.DailyBars)
	var b strings.Builder
	b.WriteString(notifier.FormatCycleReport(asset.Name, analysis, asOf))

	ind := calculator.Compute(series)
	b.WriteString("\n" + notifier.FormatMarketSnapshot(asset.Name, ind))

	stats := streak.Stats(streak.Detect(series.DailyBars))
	b.WriteString("\n" + notifier.FormatStreakReport(asset.Name, stats))

	if record && analysis != nil {
		if err := s.Recorder.RecordAnalysis(&recorder.AnalysisSnapshot{
			RunID: runID, Asset: asset.Name, Price: series.CurrentPrice, Analysis: analysis,
		}); err != nil {
			log.Printf("[ERROR] record analysis %s: %v", asset.Name, err)
		}
		if err := s.Recorder.RecordStreaks(&recorder.StreakSnapshot{
			RunID: runID, Asset: asset.Name, Stats: stats,
		}); err != nil {
			log.Printf("[ERROR] record streaks %s: %v", asset.Name, err)
		}
	}

	return b.String(), nil
}

func (s *Scheduler) analyzeAsset(asset Asset) (*model.PriceSeries, *model.CycleAnalysis, error) {
	series, err := asset.Collector.Collect()
	if err != nil {
		return nil, nil, fmt.Errorf("collect: %w", err)
	}
	analysis := cycle.Analyze(series.DailyBars, asset.Known, s.Params)
	return series, analysis, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	cmd := strings.ToLower(fields[0])
	arg := ""
	if len(fields) > 1 {
		arg = strings.ToUpper(fields[1])
	}

	switch cmd {
	case "/report":
		go s.weeklyTask()
		return "Generating the full report..."
	case "/cycle":
		asset, ok := s.findAsset(arg)
		if !ok {
			return s.unknownAsset(arg)
		}
		series, analysis, err := s.analyzeAsset(asset)
		if err != nil {
			return fmt.Sprintf("❌ %s: %v", asset.Name, err)
		}
		return notifier.FormatCycleReport(asset.Name, analysis, cycle.Today(series.DailyBars))
	case "/market":
		asset, ok := s.findAsset(arg)
		if !ok {
			return s.unknownAsset(arg)
		}
		series, err := asset.Collector.Collect()
		if err != nil {
			return fmt.Sprintf("❌ %s: %v", asset.Name, err)
		}
		return notifier.FormatMarketSnapshot(asset.Name, calculator.Compute(series))
	case "/streak":
		asset, ok := s.findAsset(arg)
		if !ok {
			return s.unknownAsset(arg)
		}
		series, err := asset.Collector.Collect()
		if err != nil {
			return fmt.Sprintf("❌ %s: %v", asset.Name, err)
		}
		return notifier.FormatStreakReport(asset.Name, streak.Stats(streak.Detect(series.DailyBars)))
	case "/status":
		return s.statusReply()
	case "/help":
		return notifier.FormatHelp()
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) findAsset(name string) (Asset, bool) {
	if name == "" && len(s.Assets) > 0 {
		return s.Assets[0], true
	}
	for _, a := range s.Assets {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Asset{}, false
}

func (s *Scheduler) unknownAsset(name string) string {
	names := make([]string, len(s.Assets))
	for i, a := range s.Assets {
		names[i] = a.Name
	}
	return fmt.Sprintf("Unknown asset %q. Tracked: %s", name, strings.Join(names, ", "))
}

func (s *Scheduler) statusReply() string {
	var b strings.Builder
	b.WriteString("🤖 <b>CycleSentinel status</b>\n\n")
	b.WriteString(fmt.Sprintf("Uptime: %s\n", time.Since(s.startedAt).Round(time.Second)))
	for _, a := range s.Assets {
		phase, err := s.Recorder.LastPhase(a.Name)
		if err != nil || phase == "" {
			b.WriteString(fmt.Sprintf("%s: no analysis recorded yet\n", a.Name))
			continue
		}
		b.WriteString(fmt.Sprintf("%s: last recorded phase %s\n", a.Name, phase))
	}
	return b.String()
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
