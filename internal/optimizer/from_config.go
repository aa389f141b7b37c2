package optimizer

import (
	"fmt"
	"time"

	"github.com/yourusername/adaptive-ma/internal/backtest"
	"github.com/yourusername/adaptive-ma/internal/config"
)

// FromConfig builds an optimizer Config from the loaded application configuration.
func FromConfig(cfg *config.Config) (Config, error) {
	out := DefaultConfig()

	if len(cfg.Optimizer.Pairs) > 0 {
		pairs := make([]Pair, 0, len(cfg.Optimizer.Pairs))
		for _, p := range cfg.Optimizer.Pairs {
			pairs = append(pairs, Pair{Fast: p.Fast, Slow: p.Slow})
		}
		out.Pairs = pairs
	}

	out.VolatilityThreshold = cfg.Optimizer.VolatilityThreshold
	out.TrendThreshold = cfg.Optimizer.TrendThreshold
	out.RankKey = RankKey(cfg.Optimizer.RankKey)
	out.CompareBothTypes = cfg.Optimizer.CompareBothTypes

	if cfg.Optimizer.AnalysisStart != "" {
		start, err := time.Parse("2006-01-02", cfg.Optimizer.AnalysisStart)
		if err != nil {
			return Config{}, fmt.Errorf("invalid analysis_start: %w", err)
		}
		out.AnalysisStart = start
	}
	if cfg.Optimizer.AnalysisEnd != "" {
		end, err := time.Parse("2006-01-02", cfg.Optimizer.AnalysisEnd)
		if err != nil {
			return Config{}, fmt.Errorf("invalid analysis_end: %w", err)
		}
		out.AnalysisEnd = end
	}

	out.Simulation = backtest.Config{
		StopLossPct:       cfg.Backtest.StopLossPct,
		TakeProfitPct:     cfg.Backtest.TakeProfitPct,
		MaxHoldDays:       cfg.Backtest.MaxHoldDays,
		CostBps:           cfg.Backtest.CostBps,
		IncludeUnrealized: cfg.Backtest.IncludeUnrealized,
	}

	if err := out.Validate(); err != nil {
		return Config{}, err
	}
	return out, nil
}
