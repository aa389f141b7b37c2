package models

import "time"

// PositionState enumerates position lifecycle states
type PositionState string

// Position states
const (
	PositionFlat PositionState = "flat"
	PositionLong PositionState = "long"
)

// Position tracks the single open position of a backtest run.
// Each simulation owns its own Position value; there is no shared state.
type Position struct {
	State      PositionState
	EntryDate  time.Time
	EntryPrice float64
	EntryIndex int
}

// IsOpen reports whether a position is currently held
func (p Position) IsOpen() bool {
	return p.State == PositionLong
}

// ExitReason enumerates why a trade was closed
type ExitReason string

// Exit reasons
const (
	ExitCrossover  ExitReason = "crossover"
	ExitStopLoss   ExitReason = "stop_loss"
	ExitTakeProfit ExitReason = "take_profit"
	ExitMaxHold    ExitReason = "max_hold"
)

// Trade represents one completed round trip. Unrealized marks a position
// that was force-closed at the end of the series rather than by a rule.
type Trade struct {
	EntryDate  time.Time  `json:"entry_date"`
	ExitDate   time.Time  `json:"exit_date"`
	EntryPrice float64    `json:"entry_price"`
	ExitPrice  float64    `json:"exit_price"`
	ExitReason ExitReason `json:"exit_reason"`
	ReturnPct  float64    `json:"return_pct"`
	Unrealized bool       `json:"unrealized,omitempty"`
}

// Won reports whether the trade closed with a positive net return
func (t Trade) Won() bool {
	return t.ReturnPct > 0
}

// HoldingDays returns the calendar span of the trade in days
func (t Trade) HoldingDays() int {
	return int(t.ExitDate.Sub(t.EntryDate).Hours() / 24)
}
