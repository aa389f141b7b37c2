package backtest

import (
	"encoding/json"
	"math"
	"time"

	"github.com/yourusername/adaptive-ma/internal/indicator"
	"github.com/yourusername/adaptive-ma/internal/models"
)

// Result represents the outcome of one (instrument, MA type, MA pair)
// simulation. Trades holds the full log including any unrealized
// force-close; the metric fields are computed over completed trades
// unless the simulation config includes unrealized ones.
type Result struct {
	Symbol         string           `json:"symbol"`
	MAType         indicator.MAType `json:"ma_type"`
	FastWindow     int              `json:"fast_window"`
	SlowWindow     int              `json:"slow_window"`
	TotalReturnPct float64          `json:"total_return_pct"`
	MaxDrawdownPct float64          `json:"max_drawdown_pct"`
	SharpeRatio    float64          `json:"sharpe_ratio"`
	WinRatePct     float64          `json:"win_rate_pct"`
	TradeCount     int              `json:"trade_count"`
	Trades         []models.Trade   `json:"trades"`
	Equity         EquityCurve      `json:"equity_curve"`
}

// newResult computes performance metrics over the trade log.
// Total return is compounded across trades; Sharpe is the mean trade
// return over the population standard deviation, unannualized.
func newResult(symbol string, maType indicator.MAType, fast, slow int, trades []models.Trade, cfg Config) *Result {
	result := &Result{
		Symbol:     symbol,
		MAType:     maType,
		FastWindow: fast,
		SlowWindow: slow,
		Trades:     trades,
	}

	scored := trades
	if !cfg.IncludeUnrealized {
		scored = completedTrades(trades)
	}
	result.TradeCount = len(scored)
	if len(scored) == 0 {
		result.Equity = EquityCurve{}
		return result
	}

	returns := make([]float64, len(scored))
	exitDates := make([]time.Time, len(scored))
	wins := 0
	for i, trade := range scored {
		returns[i] = trade.ReturnPct
		exitDates[i] = trade.ExitDate
		if trade.Won() {
			wins++
		}
	}

	result.Equity = BuildEquityCurve(scored[0].EntryDate, exitDates, returns)
	result.TotalReturnPct = (result.Equity.Final() - 1.0) * 100
	result.MaxDrawdownPct = result.Equity.MaxDrawdown() * 100
	result.SharpeRatio = sharpeRatio(returns)
	result.WinRatePct = float64(wins) / float64(len(scored)) * 100
	return result
}

// ToJSON exports the result to JSON
func (r *Result) ToJSON() string {
	data, _ := json.Marshal(r)
	return string(data)
}

func completedTrades(trades []models.Trade) []models.Trade {
	completed := make([]models.Trade, 0, len(trades))
	for _, trade := range trades {
		if trade.Unrealized {
			continue
		}
		completed = append(completed, trade)
	}
	return completed
}

// sharpeRatio is guarded: fewer than two trades or zero dispersion yield 0
func sharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	std := stddev(returns)
	if std == 0 {
		return 0
	}
	return average(returns) / std
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	return mean / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
