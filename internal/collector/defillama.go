package collector

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"

	"CycleSentinel/internal/model"
)

const (
	llamaSpanDays = 500 // larger spans time out on their side
	llamaMaxPages = 15
)

// DeFiLlamaFetcher implements Fetcher against the coins.llama.fi price
// API. It only provides daily closes, so OHLC is synthesized: open is
// the previous close, high/low are the body extremes. Good enough for
// cycle work, useless for intraday.
type DeFiLlamaFetcher struct {
	BaseURL string
	Client  *http.Client
	// Coins maps venue symbols to DeFiLlama coin ids,
	// e.g. BTCUSDT -> coingecko:bitcoin.
	Coins map[string]string
}

// NewDeFiLlamaFetcher creates a fetcher for the given symbol-to-coin mapping.
func NewDeFiLlamaFetcher(coins map[string]string) *DeFiLlamaFetcher {
	return &DeFiLlamaFetcher{
		BaseURL: "https://coins.llama.fi",
		Client:  &http.Client{Timeout: 30 * time.Second},
		Coins:   coins,
	}
}

func (f *DeFiLlamaFetcher) Name() string { return "defillama" }

type llamaPrice struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

func (f *DeFiLlamaFetcher) FetchDailyBars(symbol string, since time.Time) ([]model.OHLCV, error) {
	coin, ok := f.Coins[symbol]
	if !ok {
		return nil, fmt.Errorf("no defillama coin mapped for %s", symbol)
	}

	start := since.Unix()
	end := time.Now().Unix()
	var prices []llamaPrice

	for page := 0; start < end && page < llamaMaxPages; page++ {
		chunk, err := f.fetchChart(coin, start)
		if err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			break
		}
		prices = append(prices, chunk...)
		last := chunk[len(chunk)-1].Timestamp
		if last <= start {
			break // no progress, stop
		}
		start = last + 86400
		// The API often returns fewer rows than the requested span.
		// Only a near-empty chunk means the series is exhausted.
		if len(chunk) < 10 {
			break
		}
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("defillama returned no prices for %s", coin)
	}

	// One row per calendar day, first occurrence wins.
	seen := make(map[string]bool)
	unique := prices[:0]
	for _, p := range prices {
		key := time.Unix(p.Timestamp, 0).UTC().Format("2006-01-02")
		if !seen[key] {
			seen[key] = true
			unique = append(unique, p)
		}
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].Timestamp < unique[j].Timestamp })

	return synthesizeBars(unique), nil
}

// FetchCurrentPrice uses the spot endpoint rather than the last chart
// close, which can lag by most of a day.
func (f *DeFiLlamaFetcher) FetchCurrentPrice(symbol string) (float64, error) {
	coin, ok := f.Coins[symbol]
	if !ok {
		return 0, fmt.Errorf("no defillama coin mapped for %s", symbol)
	}
	endpoint := fmt.Sprintf("%s/prices/current/%s", f.BaseURL, coin)
	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return 0, fmt.Errorf("fetch current price: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch current price: status %d", resp.StatusCode)
	}
	var result struct {
		Coins map[string]struct {
			Price float64 `json:"price"`
		} `json:"coins"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode price: %w", err)
	}
	entry, ok := result.Coins[coin]
	if !ok {
		return 0, fmt.Errorf("no price entry for %s", coin)
	}
	return entry.Price, nil
}

func (f *DeFiLlamaFetcher) fetchChart(coin string, startSec int64) ([]llamaPrice, error) {
	endpoint := fmt.Sprintf("%s/chart/%s?start=%d&span=%d&period=1d&searchWidth=600",
		f.BaseURL, coin, startSec, llamaSpanDays)
	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch chart: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch chart: status %d", resp.StatusCode)
	}
	var result struct {
		Coins map[string]struct {
			Prices []llamaPrice `json:"prices"`
		} `json:"coins"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	entry, ok := result.Coins[coin]
	if !ok {
		return nil, nil
	}
	return entry.Prices, nil
}

// synthesizeBars builds daily OHLCV from close-only data.
func synthesizeBars(prices []llamaPrice) []model.OHLCV {
	bars := make([]model.OHLCV, len(prices))
	for i, p := range prices {
		open := p.Price
		if i > 0 {
			open = prices[i-1].Price
		}
		bars[i] = model.OHLCV{
			Time:  time.Unix(p.Timestamp, 0).UTC().Truncate(24 * time.Hour),
			Open:  open,
			High:  math.Max(open, p.Price),
			Low:   math.Min(open, p.Price),
			Close: p.Price,
		}
	}
	return bars
}
