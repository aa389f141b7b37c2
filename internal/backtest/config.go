package backtest

import (
	"fmt"

	"github.com/yourusername/adaptive-ma/internal/models"
)

// Config holds the exit-rule and cost parameters for one simulation
type Config struct {
	StopLossPct       float64
	TakeProfitPct     float64
	MaxHoldDays       int
	CostBps           float64
	IncludeUnrealized bool
}

// DefaultConfig returns the exit parameters used by the adaptive strategy:
// 3% stop loss, 5% take profit, 7 trading-day maximum hold, 15 bps per side.
func DefaultConfig() Config {
	return Config{
		StopLossPct:   0.03,
		TakeProfitPct: 0.05,
		MaxHoldDays:   7,
		CostBps:       15,
	}
}

// Validate validates simulation parameters
func (c Config) Validate() error {
	if c.StopLossPct < 0 || c.StopLossPct >= 1 {
		return fmt.Errorf("%w: stop loss must be in [0,1)", models.ErrInvalidConfiguration)
	}
	if c.TakeProfitPct < 0 {
		return fmt.Errorf("%w: take profit cannot be negative", models.ErrInvalidConfiguration)
	}
	if c.MaxHoldDays <= 0 {
		return fmt.Errorf("%w: max holding period must be positive", models.ErrInvalidConfiguration)
	}
	if c.CostBps < 0 {
		return fmt.Errorf("%w: transaction cost cannot be negative", models.ErrInvalidConfiguration)
	}
	return nil
}

// RoundTripCost returns the total entry-plus-exit cost as a fraction
func (c Config) RoundTripCost() float64 {
	return 2 * c.CostBps / 10000.0
}
