package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"CycleSentinel/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read while bot writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_snapshots (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id               TEXT NOT NULL,
			asset                TEXT NOT NULL,
			timestamp            INTEGER NOT NULL,
			price                REAL,
			phase                TEXT,
			phase_progress       REAL,
			days_since_peak      INTEGER,
			days_since_trough    INTEGER,
			avg_bull_duration    REAL,
			avg_bear_duration    REAL,
			median_bull_return   REAL,
			median_bear_drawdown REAL,
			projected_top        TEXT,
			projected_bottom     TEXT,
			points_json          TEXT,
			cycles_json          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_asset_ts ON analysis_snapshots(asset, timestamp)`,

		`CREATE TABLE IF NOT EXISTS phase_changes (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL,
			asset      TEXT NOT NULL,
			timestamp  INTEGER NOT NULL,
			prev_phase TEXT,
			next_phase TEXT,
			price      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_phase_asset_ts ON phase_changes(asset, timestamp)`,

		`CREATE TABLE IF NOT EXISTS streak_snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL,
			asset           TEXT NOT NULL,
			timestamp       INTEGER NOT NULL,
			current_type    TEXT,
			current_length  INTEGER,
			longest_green   INTEGER,
			longest_red     INTEGER,
			avg_green       REAL,
			avg_red         REAL,
			total_green     INTEGER,
			total_red       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_streak_asset_ts ON streak_snapshots(asset, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordAnalysis(snap *AnalysisSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := snap.Analysis
	points, err := json.Marshal(a.AllPoints)
	if err != nil {
		return fmt.Errorf("marshal points: %w", err)
	}
	cycles, err := json.Marshal(a.Cycles)
	if err != nil {
		return fmt.Errorf("marshal cycles: %w", err)
	}

	var top, bottom []byte
	if a.ProjectedTop != nil {
		top, _ = json.Marshal(a.ProjectedTop)
	}
	if a.ProjectedBottom != nil {
		bottom, _ = json.Marshal(a.ProjectedBottom)
	}

	_, err = r.db.Exec(`INSERT INTO analysis_snapshots
		(run_id, asset, timestamp, price, phase, phase_progress,
		 days_since_peak, days_since_trough,
		 avg_bull_duration, avg_bear_duration,
		 median_bull_return, median_bear_drawdown,
		 projected_top, projected_bottom, points_json, cycles_json)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		snap.RunID, snap.Asset, time.Now().Unix(), snap.Price,
		string(a.CurrentPhase), a.PhaseProgress,
		a.DaysSincePeak, a.DaysSinceTrough,
		a.AvgBullDuration, a.AvgBearDuration,
		a.MedianBullReturn, a.MedianBearDrawdown,
		string(top), string(bottom), string(points), string(cycles),
	)
	return err
}

func (r *SQLiteRecorder) RecordPhaseChange(evt *PhaseChangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO phase_changes
		(run_id, asset, timestamp, prev_phase, next_phase, price)
		VALUES (?,?,?,?,?,?)`,
		evt.RunID, evt.Asset, time.Now().Unix(),
		string(evt.PrevPhase), string(evt.NextPhase), evt.Price,
	)
	return err
}

func (r *SQLiteRecorder) RecordStreaks(snap *StreakSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := snap.Stats
	if s == nil {
		return nil
	}
	_, err := r.db.Exec(`INSERT INTO streak_snapshots
		(run_id, asset, timestamp, current_type, current_length,
		 longest_green, longest_red, avg_green, avg_red, total_green, total_red)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		snap.RunID, snap.Asset, time.Now().Unix(),
		string(s.Current.Type), s.Current.Length,
		s.LongestGreen.Length, s.LongestRed.Length,
		s.AvgGreenLength, s.AvgRedLength,
		s.TotalGreenDays, s.TotalRedDays,
	)
	return err
}

func (r *SQLiteRecorder) LastPhase(asset string) (model.Phase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var phase string
	err := r.db.QueryRow(`SELECT phase FROM analysis_snapshots
		WHERE asset = ? ORDER BY timestamp DESC, id DESC LIMIT 1`, asset).Scan(&phase)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query last phase: %w", err)
	}
	return model.Phase(phase), nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
