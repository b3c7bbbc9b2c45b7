package model

import "time"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Date returns the bar's calendar day as YYYY-MM-DD (UTC).
func (b OHLCV) Date() string { return b.Time.UTC().Format("2006-01-02") }

// PriceSeries holds the full daily history for one asset.
type PriceSeries struct {
	Symbol       string
	DailyBars    []OHLCV
	CurrentPrice float64
	FetchedAt    time.Time
}
