package collector

import (
	"time"

	"CycleSentinel/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchDailyBars returns all daily bars from since (inclusive) through
	// the most recent completed day, in chronological order.
	FetchDailyBars(symbol string, since time.Time) ([]model.OHLCV, error)
	FetchCurrentPrice(symbol string) (float64, error)
	Name() string
}
