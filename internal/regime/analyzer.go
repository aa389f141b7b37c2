// Package regime measures market-regime statistics used to choose
// between SMA and EMA configurations.
package regime

import (
	"fmt"
	"math"

	"github.com/yourusername/adaptive-ma/internal/models"
)

// Stats holds the regime measurements for one instrument over its
// analysis window. Volatility is the population standard deviation of
// daily percentage returns, not annualized. TrendStrength is the
// directional efficiency ratio in percent; NoiseRatio is its inverse,
// so the two sum to 100 whenever the series moved at all.
type Stats struct {
	Volatility    float64 `json:"volatility"`
	TrendStrength float64 `json:"trend_strength"`
	NoiseRatio    float64 `json:"noise_ratio"`
}

// Analyze computes regime statistics over the supplied series. The
// caller restricts the series to the analysis window beforehand.
func Analyze(series *models.PriceSeries) (Stats, error) {
	if series.Len() < 2 {
		return Stats{}, fmt.Errorf("%w: regime analysis needs at least 2 bars, got %d", models.ErrInsufficientData, series.Len())
	}

	closes := series.Closes()
	stats := Stats{
		Volatility: returnVolatility(closes),
	}

	netMove := math.Abs(closes[len(closes)-1] - closes[0])
	totalMove := 0.0
	for i := 1; i < len(closes); i++ {
		totalMove += math.Abs(closes[i] - closes[i-1])
	}
	if totalMove > 0 {
		stats.TrendStrength = netMove / totalMove * 100
		stats.NoiseRatio = (totalMove - netMove) / totalMove * 100
	}
	return stats, nil
}

func returnVolatility(closes []float64) float64 {
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1.0)
	}
	if len(returns) == 0 {
		return 0
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(returns))
	return math.Sqrt(variance)
}
