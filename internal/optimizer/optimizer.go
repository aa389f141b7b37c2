// Package optimizer sweeps moving-average window pairs per instrument
// and selects the best configuration under a regime-driven MA type.
package optimizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/adaptive-ma/internal/backtest"
	"github.com/yourusername/adaptive-ma/internal/indicator"
	"github.com/yourusername/adaptive-ma/internal/logger"
	"github.com/yourusername/adaptive-ma/internal/metrics"
	"github.com/yourusername/adaptive-ma/internal/models"
	"github.com/yourusername/adaptive-ma/internal/regime"
)

// Optimizer orchestrates regime analysis and candidate-pair sweeps
type Optimizer struct {
	config    Config
	simulator *backtest.Simulator
	logger    *logrus.Logger
}

// New creates an optimizer, validating all configuration up front
func New(cfg Config, logger *logrus.Logger) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}
	simulator, err := backtest.NewSimulator(cfg.Simulation, logger)
	if err != nil {
		return nil, err
	}
	return &Optimizer{config: cfg, simulator: simulator, logger: logger}, nil
}

// Config returns the optimizer configuration
func (o *Optimizer) Config() Config {
	return o.config
}

// SelectMAType applies the regime decision rule: a volatile or strongly
// trending market gets the faster-reacting EMA, everything else the
// smoother SMA.
func (o *Optimizer) SelectMAType(stats regime.Stats) indicator.MAType {
	if stats.Volatility > o.config.VolatilityThreshold || stats.TrendStrength > o.config.TrendThreshold {
		return indicator.EMA
	}
	return indicator.SMA
}

// Optimize produces exactly one OptimizationRecord for the instrument:
// regime stats over the analysis window, the regime-chosen MA type, and
// the metrics of the best-ranked candidate pair.
func (o *Optimizer) Optimize(series *models.PriceSeries) (*models.OptimizationRecord, error) {
	window := series.Restrict(o.config.AnalysisStart, o.config.AnalysisEnd)
	stats, err := regime.Analyze(window)
	if err != nil {
		return nil, fmt.Errorf("regime analysis for %s: %w", series.Symbol, err)
	}

	maType := o.SelectMAType(stats)
	o.logger.WithFields(logrus.Fields{
		"symbol":     window.Symbol,
		"volatility": stats.Volatility,
		"trend":      stats.TrendStrength,
		"noise":      stats.NoiseRatio,
		"ma_type":    maType,
	}).Info("Regime measured")

	best, err := o.sweep(window, maType)
	if err != nil {
		return nil, err
	}

	if o.config.CompareBothTypes {
		o.compareAlternate(window, maType, best)
	}

	record := &models.OptimizationRecord{
		ID:             uuid.New(),
		Symbol:         window.Symbol,
		Volatility:     stats.Volatility,
		TrendStrength:  stats.TrendStrength,
		NoiseRatio:     stats.NoiseRatio,
		MAType:         string(best.MAType),
		FastWindow:     best.FastWindow,
		SlowWindow:     best.SlowWindow,
		ReturnPct:      best.TotalReturnPct,
		WinRatePct:     best.WinRatePct,
		SharpeRatio:    best.SharpeRatio,
		MaxDrawdownPct: best.MaxDrawdownPct,
		TradeCount:     best.TradeCount,
		CreatedAt:      time.Now().UTC(),
	}
	return record, nil
}

// sweep simulates every candidate pair with the given MA type and keeps
// the best-ranked result. A pair that cannot be simulated for lack of
// data is skipped, never scored as zero.
func (o *Optimizer) sweep(series *models.PriceSeries, maType indicator.MAType) (*backtest.Result, error) {
	sequence := NewPairSequence(o.config.Pairs)
	var best *backtest.Result

	for {
		pair, ok := sequence.Next()
		if !ok {
			break
		}
		result, err := o.simulator.Run(series, pair.Fast, pair.Slow, maType)
		if err != nil {
			if errors.Is(err, models.ErrInsufficientData) {
				o.logger.WithFields(logrus.Fields{
					"symbol": series.Symbol,
					"pair":   pair.String(),
				}).Warn("Skipping pair: insufficient data")
				continue
			}
			return nil, err
		}
		metrics.RecordCandidateEvaluated()
		if best == nil || o.better(result, best) {
			best = result
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: no candidate pair could be simulated for %s", models.ErrInsufficientData, series.Symbol)
	}
	return best, nil
}

func (o *Optimizer) compareAlternate(series *models.PriceSeries, chosen indicator.MAType, best *backtest.Result) {
	alternate := indicator.SMA
	if chosen == indicator.SMA {
		alternate = indicator.EMA
	}
	altBest, err := o.sweep(series, alternate)
	if err != nil {
		logger.ForSymbol(o.logger, series.Symbol).WithError(err).Warn("Comparison sweep failed")
		return
	}
	o.logger.WithFields(logrus.Fields{
		"symbol":        series.Symbol,
		"chosen_type":   chosen,
		"chosen_sharpe": best.SharpeRatio,
		"alt_type":      alternate,
		"alt_pair":      fmt.Sprintf("%d/%d", altBest.FastWindow, altBest.SlowWindow),
		"alt_sharpe":    altBest.SharpeRatio,
	}).Info("Alternate MA type comparison")
}

// better reports whether candidate outranks current under the configured
// key, breaking ties by total return and then by lower drawdown.
func (o *Optimizer) better(candidate, current *backtest.Result) bool {
	primaryCandidate, primaryCurrent := candidate.SharpeRatio, current.SharpeRatio
	if o.config.RankKey == RankByReturn {
		primaryCandidate, primaryCurrent = candidate.TotalReturnPct, current.TotalReturnPct
	}
	if primaryCandidate != primaryCurrent {
		return primaryCandidate > primaryCurrent
	}
	if candidate.TotalReturnPct != current.TotalReturnPct {
		return candidate.TotalReturnPct > current.TotalReturnPct
	}
	return candidate.MaxDrawdownPct < current.MaxDrawdownPct
}
