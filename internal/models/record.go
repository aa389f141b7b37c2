package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OptimizationRecord is the final output row for one instrument: the
// measured regime, the regime-chosen MA configuration, and the winning
// backtest's metrics. Exactly one record is emitted per instrument per
// optimizer invocation.
type OptimizationRecord struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Symbol         string    `db:"symbol" json:"symbol" validate:"required"`
	Volatility     float64   `db:"volatility" json:"volatility"`
	TrendStrength  float64   `db:"trend_strength" json:"trend_strength"`
	NoiseRatio     float64   `db:"noise_ratio" json:"noise_ratio"`
	MAType         string    `db:"ma_type" json:"ma_type" validate:"oneof=SMA EMA"`
	FastWindow     int       `db:"fast_window" json:"fast_window" validate:"gte=2"`
	SlowWindow     int       `db:"slow_window" json:"slow_window" validate:"gtfield=FastWindow"`
	ReturnPct      float64   `db:"return_pct" json:"return_pct"`
	WinRatePct     float64   `db:"win_rate_pct" json:"win_rate_pct"`
	SharpeRatio    float64   `db:"sharpe_ratio" json:"sharpe_ratio"`
	MaxDrawdownPct float64   `db:"max_drawdown_pct" json:"max_drawdown_pct"`
	TradeCount     int       `db:"trade_count" json:"trade_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// PairString formats the chosen windows as "fast/slow" for reporting
func (r OptimizationRecord) PairString() string {
	return fmt.Sprintf("%d/%d", r.FastWindow, r.SlowWindow)
}
