package regime

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/yourusername/adaptive-ma/internal/models"
)

func buildSeries(t *testing.T, closes []float64) *models.PriceSeries {
	t.Helper()
	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = models.PriceBar{Date: start.AddDate(0, 0, i), Close: c}
	}
	series, err := models.NewPriceSeries("TEST", bars)
	if err != nil {
		t.Fatalf("failed to build series: %v", err)
	}
	return series
}

func TestFlatSeriesIsZeroRegime(t *testing.T) {
	closes := make([]float64, 10)
	for i := range closes {
		closes[i] = 250
	}
	stats, err := Analyze(buildSeries(t, closes))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if stats.Volatility != 0 {
		t.Fatalf("expected zero volatility, got %v", stats.Volatility)
	}
	if stats.TrendStrength != 0 || stats.NoiseRatio != 0 {
		t.Fatalf("expected zero trend and noise with no movement, got %v / %v", stats.TrendStrength, stats.NoiseRatio)
	}
}

func TestTrendAndNoiseSumToHundred(t *testing.T) {
	cases := [][]float64{
		{100, 102, 101, 104, 103, 107},
		{100, 99, 101, 98, 102, 97},
		{50, 55, 60, 65, 70},
	}
	for i, closes := range cases {
		stats, err := Analyze(buildSeries(t, closes))
		if err != nil {
			t.Fatalf("case %d: Analyze failed: %v", i, err)
		}
		sum := stats.TrendStrength + stats.NoiseRatio
		if math.Abs(sum-100) > 1e-9 {
			t.Fatalf("case %d: trend+noise = %v, want 100", i, sum)
		}
	}
}

func TestPerfectTrendHasNoNoise(t *testing.T) {
	stats, err := Analyze(buildSeries(t, []float64{100, 101, 102, 103, 104}))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if math.Abs(stats.TrendStrength-100) > 1e-9 {
		t.Fatalf("monotone series should have 100%% trend strength, got %v", stats.TrendStrength)
	}
	if math.Abs(stats.NoiseRatio) > 1e-9 {
		t.Fatalf("monotone series should have zero noise, got %v", stats.NoiseRatio)
	}
}

func TestVolatilityMatchesPopulationStd(t *testing.T) {
	// Returns: +10%, -10%
	stats, err := Analyze(buildSeries(t, []float64{100, 110, 99}))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	mean := 0.0 // (+0.10 - 0.10) / 2
	want := math.Sqrt(((0.10-mean)*(0.10-mean) + (-0.10-mean)*(-0.10-mean)) / 2)
	if math.Abs(stats.Volatility-want) > 1e-9 {
		t.Fatalf("expected volatility %v, got %v", want, stats.Volatility)
	}
}

func TestAnalyzeInsufficientData(t *testing.T) {
	_, err := Analyze(buildSeries(t, []float64{100}))
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}
