package collector

import (
	"fmt"
	"log"
	"time"

	"CycleSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.OHLCV
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ string, since time.Time) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return generateMockBars(m.Price, since), nil
}

func (m *MockFetcher) FetchCurrentPrice(_ string) (float64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Price, nil
}

func generateMockBars(basePrice float64, since time.Time) []model.OHLCV {
	count := int(time.Since(since).Hours() / 24)
	if count < 1 {
		count = 1
	}
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   since.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector fetches the full daily history for one asset, falling back
// to a secondary source when the primary is unreachable or geo-blocked.
type Collector struct {
	Primary  Fetcher
	Fallback Fetcher
	Symbol   string
	ListedAt time.Time // history is fetched from this day forward
}

// NewCollector creates a new Collector.
func NewCollector(primary, fallback Fetcher, symbol string, listedAt time.Time) *Collector {
	return &Collector{Primary: primary, Fallback: fallback, Symbol: symbol, ListedAt: listedAt}
}

// Collect fetches the daily series and current price.
func (c *Collector) Collect() (*model.PriceSeries, error) {
	bars, src, err := c.fetchBars()
	if err != nil {
		return nil, err
	}

	price, perr := src.FetchCurrentPrice(c.Symbol)
	if perr != nil {
		log.Printf("[WARN] current price fetch from %s failed: %v, using last close", src.Name(), perr)
		if len(bars) > 0 {
			price = bars[len(bars)-1].Close
		}
	}

	return &model.PriceSeries{
		Symbol:       c.Symbol,
		DailyBars:    bars,
		CurrentPrice: price,
		FetchedAt:    time.Now().UTC(),
	}, nil
}

func (c *Collector) fetchBars() ([]model.OHLCV, Fetcher, error) {
	bars, err := c.Primary.FetchDailyBars(c.Symbol, c.ListedAt)
	if err == nil && len(bars) > 0 {
		return bars, c.Primary, nil
	}
	if err != nil {
		log.Printf("[WARN] %s fetch for %s failed: %v, trying %s", c.Primary.Name(), c.Symbol, err, c.Fallback.Name())
	} else {
		log.Printf("[WARN] %s returned no bars for %s, trying %s", c.Primary.Name(), c.Symbol, c.Fallback.Name())
	}

	fbars, ferr := c.Fallback.FetchDailyBars(c.Symbol, c.ListedAt)
	if ferr != nil {
		return nil, nil, fmt.Errorf("all sources failed for %s: %w", c.Symbol, ferr)
	}
	if len(fbars) == 0 {
		return nil, nil, fmt.Errorf("all sources returned no bars for %s", c.Symbol)
	}
	return fbars, c.Fallback, nil
}
