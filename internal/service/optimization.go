package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/adaptive-ma/internal/logger"
	"github.com/yourusername/adaptive-ma/internal/metrics"
	"github.com/yourusername/adaptive-ma/internal/models"
	"github.com/yourusername/adaptive-ma/internal/optimizer"
	"github.com/yourusername/adaptive-ma/internal/report"
	"github.com/yourusername/adaptive-ma/internal/repository"
)

// OptimizationService runs regime-driven candidate sweeps across all stored
// symbols and persists the winning configuration per symbol
type OptimizationService struct {
	priceRepo  repository.PriceBarRepository
	recordRepo repository.OptimizationRecordRepository
	optimizer  *optimizer.Optimizer
	workers    int
	logger     *logrus.Logger
}

// NewOptimizationService creates a new optimization service
func NewOptimizationService(
	priceRepo repository.PriceBarRepository,
	recordRepo repository.OptimizationRecordRepository,
	opt *optimizer.Optimizer,
	workers int,
	logger *logrus.Logger,
) *OptimizationService {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &OptimizationService{
		priceRepo:  priceRepo,
		recordRepo: recordRepo,
		optimizer:  opt,
		workers:    workers,
		logger:     logger,
	}
}

// RunForSymbols optimizes the given symbols and persists the results.
// Per-symbol failures are logged and skipped; the successful records are returned.
func (s *OptimizationService) RunForSymbols(ctx context.Context, symbols []string) ([]*models.OptimizationRecord, error) {
	if len(symbols) == 0 {
		var err error
		symbols, err = s.priceRepo.GetSymbols(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list symbols: %w", err)
		}
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols with stored history")
	}

	metrics.UpdateTrackedSymbols(len(symbols))

	seriesList := make([]*models.PriceSeries, 0, len(symbols))
	for _, symbol := range symbols {
		series, err := s.priceRepo.GetBySymbolAndRange(ctx, symbol, time.Time{}, time.Time{})
		if err != nil {
			logger.ForSymbol(s.logger, symbol).WithError(err).Warn("skipping symbol without usable history")
			metrics.RecordOptimizationRun("skipped", 0)
			continue
		}
		seriesList = append(seriesList, series)
	}
	if len(seriesList) == 0 {
		return nil, fmt.Errorf("no loadable price history for %d symbols", len(symbols))
	}

	startTime := time.Now()
	results := s.optimizer.RunAll(ctx, seriesList, s.workers)

	var records []*models.OptimizationRecord
	for _, result := range results {
		elapsed := time.Since(startTime).Seconds() / float64(len(results))
		if result.Err != nil {
			metrics.RecordOptimizationRun("failure", elapsed)
			logger.ForSymbol(s.logger, result.Symbol).WithError(result.Err).Warn("optimization failed")
			continue
		}
		metrics.RecordOptimizationRun("success", elapsed)
		metrics.UpdateBestResult(result.Symbol, result.Record.SharpeRatio, result.Record.ReturnPct)
		records = append(records, result.Record)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no symbol produced a result")
	}

	if err := s.recordRepo.InsertBatch(ctx, records); err != nil {
		return records, fmt.Errorf("failed to persist optimization records: %w", err)
	}

	metrics.LastOptimizationTimestamp.Set(float64(time.Now().Unix()))
	s.logger.WithFields(logrus.Fields{
		"symbols":  len(symbols),
		"records":  len(records),
		"duration": time.Since(startTime).Round(time.Millisecond).String(),
	}).Info("optimization run complete")

	return records, nil
}

// WriteReports renders the CSV report, plus the console summary to the log
func (s *OptimizationService) WriteReports(records []*models.OptimizationRecord, csvPath string) error {
	if csvPath != "" {
		if err := report.WriteCSV(records, csvPath); err != nil {
			return err
		}
		s.logger.WithField("path", csvPath).Info("wrote CSV report")
	}

	for _, line := range strings.Split(report.GenerateConsoleReport(records), "\n") {
		if line != "" {
			s.logger.Info(line)
		}
	}
	return nil
}
