package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"CycleSentinel/internal/model"
)

const (
	binancePageLimit = 1000
	binanceMaxPages  = 15

	// Max allowed deviation of high/low from the open-close body.
	// Binance US had known bad wicks (a $138k BTC print on 2023-06-21
	// when spot was ~$30k); a wick 50% beyond the body is exchange
	// garbage, not price discovery.
	maxWickRatio = 1.5
)

// BinanceFetcher implements Fetcher against the Binance spot REST API.
type BinanceFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewBinanceFetcher creates a new fetcher with optional proxy support.
func NewBinanceFetcher(proxyURL string) *BinanceFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BinanceFetcher{
		BaseURL: "https://api.binance.com",
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

// FetchDailyBars pages through /api/v3/klines from since to now. Binance
// caps each page at 1000 rows, so a full history is several pages; the
// next page starts one millisecond after the previous page's close time.
func (f *BinanceFetcher) FetchDailyBars(symbol string, since time.Time) ([]model.OHLCV, error) {
	var bars []model.OHLCV
	start := since.UnixMilli()
	now := time.Now().UnixMilli()

	for page := 0; start < now && page < binanceMaxPages; page++ {
		rows, err := f.fetchKlinePage(symbol, start)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			break
		}
		for _, row := range rows {
			bar, err := parseKline(row)
			if err != nil {
				return nil, fmt.Errorf("parse kline: %w", err)
			}
			bars = append(bars, bar)
		}
		closeTime, ok := rows[len(rows)-1][6].(float64)
		if !ok {
			return nil, fmt.Errorf("parse kline: bad close time")
		}
		start = int64(closeTime) + 1
		if len(rows) < binancePageLimit {
			break
		}
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *BinanceFetcher) FetchCurrentPrice(symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s", f.BaseURL, symbol)
	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return 0, fmt.Errorf("fetch current price: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch current price: status %d", resp.StatusCode)
	}
	var result struct {
		Price string `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode price: %w", err)
	}
	price, err := strconv.ParseFloat(result.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", result.Price, err)
	}
	return price, nil
}

func (f *BinanceFetcher) fetchKlinePage(symbol string, startMilli int64) ([][]interface{}, error) {
	endpoint := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=1d&startTime=%d&limit=%d",
		f.BaseURL, symbol, startMilli, binancePageLimit)
	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch klines: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch klines: status %d, body: %s", resp.StatusCode, string(body))
	}
	var rows [][]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}
	return rows, nil
}

// parseKline converts one raw kline row. Binance mixes numeric and
// string fields: [0] open time ms, [1]-[4] OHLC as strings, [5] volume
// as a string.
func parseKline(row []interface{}) (model.OHLCV, error) {
	if len(row) < 6 {
		return model.OHLCV{}, fmt.Errorf("short row: %d fields", len(row))
	}
	openTime, ok := row[0].(float64)
	if !ok {
		return model.OHLCV{}, fmt.Errorf("bad open time")
	}
	nums := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		s, ok := row[i].(string)
		if !ok {
			return model.OHLCV{}, fmt.Errorf("field %d is not a string", i)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.OHLCV{}, fmt.Errorf("field %d: %w", i, err)
		}
		nums[i-1] = v
	}
	bar := model.OHLCV{
		Time:   time.UnixMilli(int64(openTime)).UTC(),
		Open:   nums[0],
		High:   nums[1],
		Low:    nums[2],
		Close:  nums[3],
		Volume: nums[4],
	}
	return clampWick(bar), nil
}

// clampWick collapses a wick beyond maxWickRatio back onto the body.
func clampWick(bar model.OHLCV) model.OHLCV {
	bodyHigh := math.Max(bar.Open, bar.Close)
	bodyLow := math.Min(bar.Open, bar.Close)
	if bar.High > bodyHigh*maxWickRatio {
		bar.High = bodyHigh
	}
	if bodyLow > 0 && bar.Low < bodyLow/maxWickRatio {
		bar.Low = bodyLow
	}
	return bar
}
