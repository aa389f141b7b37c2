package optimizer

import (
	"fmt"
	"time"

	"github.com/yourusername/adaptive-ma/internal/backtest"
	"github.com/yourusername/adaptive-ma/internal/models"
)

// Pair is one candidate fast/slow window combination
type Pair struct {
	Fast int `json:"fast"`
	Slow int `json:"slow"`
}

// String formats the pair as "fast/slow"
func (p Pair) String() string {
	return fmt.Sprintf("%d/%d", p.Fast, p.Slow)
}

// RankKey selects the metric used to pick the best candidate
type RankKey string

// Supported ranking keys. Ties break by total return, then by lower
// maximum drawdown.
const (
	RankBySharpe RankKey = "sharpe"
	RankByReturn RankKey = "return"
)

// Valid reports whether the ranking key is known
func (k RankKey) Valid() bool {
	return k == RankBySharpe || k == RankByReturn
}

// Config holds the full optimization surface: candidate pairs, the
// regime decision thresholds, the analysis window and the simulation
// parameters handed to the backtest engine.
type Config struct {
	Pairs               []Pair
	VolatilityThreshold float64
	TrendThreshold      float64
	AnalysisStart       time.Time
	AnalysisEnd         time.Time
	RankKey             RankKey
	CompareBothTypes    bool
	Simulation          backtest.Config
}

// DefaultPairs returns the window pairs swept by the original strategy
func DefaultPairs() []Pair {
	return []Pair{
		{Fast: 10, Slow: 20},
		{Fast: 12, Slow: 26},
		{Fast: 20, Slow: 50},
		{Fast: 50, Slow: 100},
		{Fast: 50, Slow: 200},
	}
}

// DefaultConfig returns the documented defaults: regime thresholds of 1%
// daily volatility and a 25% efficiency ratio, sharpe-ranked selection.
func DefaultConfig() Config {
	return Config{
		Pairs:               DefaultPairs(),
		VolatilityThreshold: 0.01,
		TrendThreshold:      25.0,
		RankKey:             RankBySharpe,
		Simulation:          backtest.DefaultConfig(),
	}
}

// Validate fails fast on configuration errors before any simulation runs
func (c Config) Validate() error {
	if len(c.Pairs) == 0 {
		return fmt.Errorf("%w: candidate pair set is empty", models.ErrInvalidConfiguration)
	}
	for _, pair := range c.Pairs {
		if pair.Fast < 2 {
			return fmt.Errorf("%w: fast window %d must be at least 2", models.ErrInvalidConfiguration, pair.Fast)
		}
		if pair.Fast >= pair.Slow {
			return fmt.Errorf("%w: pair %s has fast >= slow", models.ErrInvalidConfiguration, pair)
		}
	}
	if c.VolatilityThreshold < 0 {
		return fmt.Errorf("%w: volatility threshold cannot be negative", models.ErrInvalidConfiguration)
	}
	if c.TrendThreshold < 0 {
		return fmt.Errorf("%w: trend threshold cannot be negative", models.ErrInvalidConfiguration)
	}
	if !c.RankKey.Valid() {
		return fmt.Errorf("%w: unknown rank key %q", models.ErrInvalidConfiguration, c.RankKey)
	}
	if !c.AnalysisStart.IsZero() && !c.AnalysisEnd.IsZero() && c.AnalysisStart.After(c.AnalysisEnd) {
		return fmt.Errorf("%w: analysis start after end", models.ErrInvalidConfiguration)
	}
	return c.Simulation.Validate()
}
