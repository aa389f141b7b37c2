// Package backtest simulates moving-average crossover strategies over
// historical daily price series.
package backtest

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/adaptive-ma/internal/indicator"
	"github.com/yourusername/adaptive-ma/internal/models"
)

// Simulator runs long-only crossover backtests for one MA configuration
// at a time. Each Run owns its Position value and trade log; nothing is
// shared between invocations.
type Simulator struct {
	config Config
	logger *logrus.Logger
}

// NewSimulator creates a new crossover simulator
func NewSimulator(cfg Config, logger *logrus.Logger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Simulator{config: cfg, logger: logger}, nil
}

// Config returns the simulation configuration
func (s *Simulator) Config() Config {
	return s.config
}

// Run simulates one crossover backtest for the given window pair and MA
// type and produces exactly one Result.
//
// Entry fills at the close of the bar after a bullish crossover; there is
// no same-day fill and no exit evaluation on the fill bar. Exits are
// checked in priority order: stop loss, take profit, maximum holding
// period, bearish crossover. A position still open at the end of the
// series is force-closed at the last close and tagged unrealized.
func (s *Simulator) Run(series *models.PriceSeries, fast, slow int, maType indicator.MAType) (*Result, error) {
	if fast >= slow {
		return nil, fmt.Errorf("%w: fast window %d must be below slow window %d", models.ErrInvalidConfiguration, fast, slow)
	}
	if series.Len() < slow {
		return nil, fmt.Errorf("%w: %d bars, slow window %d", models.ErrInsufficientData, series.Len(), slow)
	}

	fastMA, err := indicator.Compute(series, fast, maType)
	if err != nil {
		return nil, err
	}
	slowMA, err := indicator.Compute(series, slow, maType)
	if err != nil {
		return nil, err
	}

	bars := series.Bars
	position := models.Position{State: models.PositionFlat}
	pendingEntry := false
	var trades []models.Trade

	for i := slowMA.Start + 1; i < len(bars); i++ {
		bar := bars[i]

		if pendingEntry {
			position = models.Position{
				State:      models.PositionLong,
				EntryDate:  bar.Date,
				EntryPrice: bar.Close,
				EntryIndex: i,
			}
			pendingEntry = false
			continue
		}

		if position.IsOpen() {
			if reason, triggered := s.checkExit(position, bar, i, fastMA, slowMA); triggered {
				trades = append(trades, s.closeTrade(position, bar, reason, false))
				position = models.Position{State: models.PositionFlat}
			}
		}

		if !position.IsOpen() && crossedAbove(fastMA, slowMA, i) {
			pendingEntry = true
		}
	}

	if position.IsOpen() {
		last := bars[len(bars)-1]
		trades = append(trades, s.closeTrade(position, last, models.ExitMaxHold, true))
	}

	result := newResult(series.Symbol, maType, fast, slow, trades, s.config)
	s.logger.WithFields(logrus.Fields{
		"symbol": series.Symbol,
		"pair":   fmt.Sprintf("%d/%d", fast, slow),
		"type":   maType,
		"trades": result.TradeCount,
	}).Debug("Simulation completed")
	return result, nil
}

// checkExit evaluates the exit rules for the current bar in priority
// order; the first match wins.
func (s *Simulator) checkExit(position models.Position, bar models.PriceBar, index int, fastMA, slowMA indicator.Series) (models.ExitReason, bool) {
	switch {
	case bar.Close <= position.EntryPrice*(1.0-s.config.StopLossPct):
		return models.ExitStopLoss, true
	case bar.Close >= position.EntryPrice*(1.0+s.config.TakeProfitPct):
		return models.ExitTakeProfit, true
	case index-position.EntryIndex >= s.config.MaxHoldDays:
		return models.ExitMaxHold, true
	case crossedBelow(fastMA, slowMA, index):
		return models.ExitCrossover, true
	}
	return "", false
}

func (s *Simulator) closeTrade(position models.Position, bar models.PriceBar, reason models.ExitReason, unrealized bool) models.Trade {
	grossReturn := bar.Close/position.EntryPrice - 1.0
	return models.Trade{
		EntryDate:  position.EntryDate,
		ExitDate:   bar.Date,
		EntryPrice: position.EntryPrice,
		ExitPrice:  bar.Close,
		ExitReason: reason,
		ReturnPct:  grossReturn - s.config.RoundTripCost(),
		Unrealized: unrealized,
	}
}

// crossedAbove reports a bullish crossover at index i: the fast MA was at
// or below the slow MA on the previous bar and is above it now. Both MA
// values must be defined on both bars.
func crossedAbove(fastMA, slowMA indicator.Series, i int) bool {
	prevFast, ok := fastMA.At(i - 1)
	if !ok {
		return false
	}
	prevSlow, ok := slowMA.At(i - 1)
	if !ok {
		return false
	}
	currFast, ok := fastMA.At(i)
	if !ok {
		return false
	}
	currSlow, ok := slowMA.At(i)
	if !ok {
		return false
	}
	return prevFast <= prevSlow && currFast > currSlow
}

// crossedBelow reports a bearish crossover at index i
func crossedBelow(fastMA, slowMA indicator.Series, i int) bool {
	prevFast, ok := fastMA.At(i - 1)
	if !ok {
		return false
	}
	prevSlow, ok := slowMA.At(i - 1)
	if !ok {
		return false
	}
	currFast, ok := fastMA.At(i)
	if !ok {
		return false
	}
	currSlow, ok := slowMA.At(i)
	if !ok {
		return false
	}
	return prevFast >= prevSlow && currFast < currSlow
}
