package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"CycleSentinel/internal/cycle"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Assets []Asset `yaml:"assets"`
	Cycle  struct {
		WindowDays        int     `yaml:"window_days"`
		Prominence        float64 `yaml:"prominence"`
		MinSeparationDays int     `yaml:"min_separation_days"`
		ReversalThreshold float64 `yaml:"reversal_threshold"`
		MinSeriesLen      int     `yaml:"min_series_len"`
		MaxPhaseProgress  float64 `yaml:"max_phase_progress"`
	} `yaml:"cycle"`
	Schedule struct {
		DailyCron  string `yaml:"daily_cron"`
		WeeklyCron string `yaml:"weekly_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Asset names one tracked market: the cycle engine key plus the venue
// symbols the collectors use for it.
type Asset struct {
	Name          string `yaml:"name"`           // engine key, e.g. BTC
	BinanceSymbol string `yaml:"binance_symbol"` // e.g. BTCUSDT
	DeFiLlamaCoin string `yaml:"defillama_coin"` // e.g. coingecko:bitcoin
	ListedAt      string `yaml:"listed_at"`      // first tradable day, YYYY-MM-DD
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("CRON_WEEKLY"); v != "" {
		cfg.Schedule.WeeklyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REVERSAL_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Cycle.ReversalThreshold = f
		}
	}

	// Defaults
	if len(cfg.Assets) == 0 {
		cfg.Assets = []Asset{
			{Name: "BTC", BinanceSymbol: "BTCUSDT", DeFiLlamaCoin: "coingecko:bitcoin", ListedAt: "2017-08-17"},
			{Name: "ETH", BinanceSymbol: "ETHUSDT", DeFiLlamaCoin: "coingecko:ethereum", ListedAt: "2017-08-17"},
		}
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 8 * * *"
	}
	if cfg.Schedule.WeeklyCron == "" {
		cfg.Schedule.WeeklyCron = "0 0 9 * * 1"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/cycle_sentinel.db"
	}

	return cfg, nil
}

// CycleParams maps the config section onto engine parameters, falling
// back to the engine defaults for any unset field.
func (c *Config) CycleParams() cycle.Params {
	p := cycle.DefaultParams()
	if c.Cycle.WindowDays > 0 {
		p.WindowDays = c.Cycle.WindowDays
	}
	if c.Cycle.Prominence > 0 {
		p.Prominence = c.Cycle.Prominence
	}
	if c.Cycle.MinSeparationDays > 0 {
		p.MinSeparationDays = c.Cycle.MinSeparationDays
	}
	if c.Cycle.ReversalThreshold > 0 {
		p.ReversalThreshold = c.Cycle.ReversalThreshold
	}
	if c.Cycle.MinSeriesLen > 0 {
		p.MinSeriesLen = c.Cycle.MinSeriesLen
	}
	if c.Cycle.MaxPhaseProgress > 0 {
		p.MaxPhaseProgress = c.Cycle.MaxPhaseProgress
	}
	return p
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if len(c.Assets) == 0 {
		return fmt.Errorf("at least one asset is required")
	}
	for _, a := range c.Assets {
		if a.Name == "" || a.BinanceSymbol == "" {
			return fmt.Errorf("asset %q needs both name and binance_symbol", a.Name)
		}
	}
	if c.Cycle.Prominence < 0 || c.Cycle.Prominence >= 10 {
		return fmt.Errorf("cycle.prominence out of range")
	}
	if c.Cycle.ReversalThreshold < 0 || c.Cycle.ReversalThreshold >= 1 {
		return fmt.Errorf("cycle.reversal_threshold must be within [0, 1)")
	}
	return nil
}
