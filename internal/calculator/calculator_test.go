package calculator

import (
	"math"
	"testing"
	"time"

	"CycleSentinel/internal/model"
)

func barsFrom(closes []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:  base.AddDate(0, 0, i),
			Open:  c,
			High:  c * 1.02,
			Low:   c * 0.98,
			Close: c,
		}
	}
	return bars
}

func TestCalculateSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	got, err := CalculateSMA(prices, 3)
	if err != nil {
		t.Fatalf("CalculateSMA: %v", err)
	}
	if got != 4 {
		t.Errorf("SMA(3) over tail [3 4 5]: got %.2f, want 4", got)
	}

	if _, err := CalculateSMA(prices, 10); err == nil {
		t.Error("expected error for insufficient data")
	}
	if _, err := CalculateSMA(prices, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateRSI(t *testing.T) {
	// Monotonic rise has no losses: RSI pegs at 100.
	up := make([]float64, 20)
	for i := range up {
		up[i] = 100 + float64(i)
	}
	got, err := CalculateRSI(barsFrom(up), 14)
	if err != nil {
		t.Fatalf("CalculateRSI: %v", err)
	}
	if got != 100 {
		t.Errorf("all-gain RSI: got %.2f, want 100", got)
	}

	// Monotonic fall has no gains: RSI pegs at 0.
	down := make([]float64, 20)
	for i := range down {
		down[i] = 100 - float64(i)
	}
	got, err = CalculateRSI(barsFrom(down), 14)
	if err != nil {
		t.Fatalf("CalculateRSI: %v", err)
	}
	if got != 0 {
		t.Errorf("all-loss RSI: got %.2f, want 0", got)
	}

	// Insufficient data defaults to neutral.
	got, err = CalculateRSI(barsFrom([]float64{1, 2, 3}), 14)
	if err != nil || got != 50 {
		t.Errorf("short series: got %.2f, %v; want 50, nil", got, err)
	}
}

func TestCalculateRSISeries(t *testing.T) {
	up := make([]float64, 20)
	for i := range up {
		up[i] = 100 + float64(i)
	}
	series, err := CalculateRSISeries(barsFrom(up), 14)
	if err != nil {
		t.Fatalf("CalculateRSISeries: %v", err)
	}
	if len(series) != 6 {
		t.Fatalf("series length: got %d, want 6 (bars minus period)", len(series))
	}
	for i, v := range series {
		if v != 100 {
			t.Errorf("all-gain series[%d]: got %.2f, want 100", i, v)
		}
	}

	// The latest value and the single-value form agree.
	mixed := []float64{100, 102, 101, 104, 103, 106, 105, 108, 107, 110,
		109, 112, 111, 114, 113, 116, 115, 118, 117, 120}
	series, err = CalculateRSISeries(barsFrom(mixed), 14)
	if err != nil {
		t.Fatalf("CalculateRSISeries: %v", err)
	}
	last, err := CalculateRSI(barsFrom(mixed), 14)
	if err != nil {
		t.Fatalf("CalculateRSI: %v", err)
	}
	if series[len(series)-1] != last {
		t.Errorf("series tail %.4f disagrees with CalculateRSI %.4f", series[len(series)-1], last)
	}

	series, err = CalculateRSISeries(barsFrom([]float64{1, 2, 3}), 14)
	if err != nil || len(series) != 0 {
		t.Errorf("short series: got %v, %v; want empty, nil", series, err)
	}

	if _, err := CalculateRSISeries(barsFrom(up), 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateBollinger(t *testing.T) {
	flat := make([]float64, 25)
	for i := range flat {
		flat[i] = 100
	}
	up, mid, low, err := CalculateBollinger(barsFrom(flat), 20, 2)
	if err != nil {
		t.Fatalf("CalculateBollinger: %v", err)
	}
	if up != 100 || mid != 100 || low != 100 {
		t.Errorf("flat series bands: got %.2f/%.2f/%.2f, want all 100", up, mid, low)
	}

	// Two alternating values: mean 150, population std 50.
	alt := make([]float64, 20)
	for i := range alt {
		if i%2 == 0 {
			alt[i] = 100
		} else {
			alt[i] = 200
		}
	}
	up, mid, low, err = CalculateBollinger(barsFrom(alt), 20, 2)
	if err != nil {
		t.Fatalf("CalculateBollinger: %v", err)
	}
	if mid != 150 {
		t.Errorf("middle band: got %.2f, want 150", mid)
	}
	if math.Abs(up-250) > 1e-9 || math.Abs(low-50) > 1e-9 {
		t.Errorf("bands: got %.2f/%.2f, want 250/50", up, low)
	}

	if _, _, _, err := CalculateBollinger(barsFrom(flat[:5]), 20, 2); err == nil {
		t.Error("expected error for insufficient data")
	}
}

func TestCalculateATR(t *testing.T) {
	// Flat bars with identical high-low spread: ATR equals the spread.
	bars := make([]model.OHLCV, 20)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = model.OHLCV{Time: base.AddDate(0, 0, i), Open: 100, High: 105, Low: 95, Close: 100}
	}
	got, err := CalculateATR(bars, 14)
	if err != nil {
		t.Fatalf("CalculateATR: %v", err)
	}
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("constant-range ATR: got %.4f, want 10", got)
	}

	if _, err := CalculateATR(bars[:5], 14); err == nil {
		t.Error("expected error for insufficient data")
	}
}

func TestCalculateVolatility(t *testing.T) {
	flat := make([]float64, 40)
	for i := range flat {
		flat[i] = 100
	}
	got, err := CalculateVolatility(barsFrom(flat), 30)
	if err != nil {
		t.Fatalf("CalculateVolatility: %v", err)
	}
	if got != 0 {
		t.Errorf("flat series volatility: got %.4f, want 0", got)
	}

	if _, err := CalculateVolatility(barsFrom(flat[:10]), 30); err == nil {
		t.Error("expected error for insufficient data")
	}
	if _, err := CalculateVolatility(barsFrom(flat), 1); err == nil {
		t.Error("expected error for degenerate window")
	}
}

func TestCalculate52WeekPosition(t *testing.T) {
	tests := []struct {
		name               string
		current, high, low float64
		want               float64
		wantErr            bool
	}{
		{"middle", 150, 200, 100, 0.5, false},
		{"clamped above", 250, 200, 100, 1, false},
		{"clamped below", 50, 200, 100, 0, false},
		{"degenerate range", 100, 100, 100, 0.5, false},
		{"inverted range", 100, 100, 200, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate52WeekPosition(tt.current, tt.high, tt.low)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestCompute_DegradesOnShortSeries(t *testing.T) {
	series := &model.PriceSeries{
		Symbol:       "BTCUSDT",
		DailyBars:    barsFrom([]float64{100, 101, 102}),
		CurrentPrice: 102,
	}
	ind := Compute(series)
	if ind.SMA200 != 102 {
		t.Errorf("SMA200 should fall back to current price, got %.2f", ind.SMA200)
	}
	if ind.DailyRSI != 50 {
		t.Errorf("RSI should default to neutral, got %.2f", ind.DailyRSI)
	}
	if ind.High52w <= 0 || ind.Low52w <= 0 {
		t.Errorf("ranges should still resolve: %.2f / %.2f", ind.High52w, ind.Low52w)
	}
}
