package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Assets) != 2 || cfg.Assets[0].Name != "BTC" {
		t.Errorf("default assets: %+v", cfg.Assets)
	}
	if cfg.Schedule.DailyCron == "" || cfg.Schedule.WeeklyCron == "" {
		t.Error("cron defaults missing")
	}
	if cfg.Database.SQLitePath == "" {
		t.Error("sqlite default missing")
	}
}

func TestLoad_ParsesYAMLAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: from-file
  chat_id: "123"
assets:
  - name: SOL
    binance_symbol: SOLUSDT
    listed_at: "2020-08-11"
cycle:
  reversal_threshold: 0.30
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("REVERSAL_THRESHOLD", "0.20")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.BotToken != "from-env" {
		t.Errorf("env should win: got %s", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.ChatID != "123" {
		t.Errorf("chat id: got %s", cfg.Telegram.ChatID)
	}
	if len(cfg.Assets) != 1 || cfg.Assets[0].Name != "SOL" {
		t.Errorf("assets: %+v", cfg.Assets)
	}
	if cfg.Cycle.ReversalThreshold != 0.20 {
		t.Errorf("reversal threshold: got %.2f", cfg.Cycle.ReversalThreshold)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "telegram: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCycleParams(t *testing.T) {
	cfg := &Config{}
	p := cfg.CycleParams()
	if p.WindowDays != 120 || p.Prominence != 0.30 || p.MinSeparationDays != 200 {
		t.Errorf("unset config should keep engine defaults: %+v", p)
	}

	cfg.Cycle.WindowDays = 90
	cfg.Cycle.ReversalThreshold = 0.2
	p = cfg.CycleParams()
	if p.WindowDays != 90 || p.ReversalThreshold != 0.2 {
		t.Errorf("overrides not applied: %+v", p)
	}
	if p.MinSeparationDays != 200 {
		t.Errorf("untouched fields should keep defaults: %+v", p)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("missing telegram credentials should fail validation")
	}

	cfg.Telegram.BotToken = "token"
	cfg.Telegram.ChatID = "42"
	if err := cfg.Validate(); err != nil {
		t.Errorf("complete config should validate: %v", err)
	}

	cfg.Cycle.ReversalThreshold = 1.2
	if err := cfg.Validate(); err == nil {
		t.Error("out-of-range threshold should fail validation")
	}
}
