// Package service coordinates data ingestion and optimization workflows.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/adaptive-ma/internal/datasource"
	"github.com/yourusername/adaptive-ma/internal/metrics"
	"github.com/yourusername/adaptive-ma/internal/models"
	"github.com/yourusername/adaptive-ma/internal/repository"
)

// IngestionService handles the daily bar ingestion workflow
type IngestionService struct {
	source    datasource.DataSource
	priceRepo repository.PriceBarRepository
	validator *BarValidator
	metrics   *IngestionMetrics
	logger    *log.Logger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	source datasource.DataSource,
	priceRepo repository.PriceBarRepository,
	validator *BarValidator,
	logger *log.Logger,
) *IngestionService {
	return &IngestionService{
		source:    source,
		priceRepo: priceRepo,
		validator: validator,
		metrics:   NewIngestionMetrics(),
		logger:    logger,
	}
}

// SyncSymbol fetches, validates, and stores bars for one symbol.
// Returns the number of bars written.
func (s *IngestionService) SyncSymbol(ctx context.Context, symbol string, startDate, endDate time.Time) (int, error) {
	fetchStart := time.Now()
	bars, err := s.source.FetchDailyBars(ctx, symbol, startDate, endDate)
	metrics.RecordDataFetchDuration(time.Since(fetchStart).Seconds())
	if err != nil {
		metrics.RecordDataFetchError(s.source.Name())
		return 0, fmt.Errorf("failed to fetch bars for %s: %w", symbol, err)
	}

	valid, rejected := s.validator.FilterValid(bars)
	if rejected > 0 {
		s.metrics.RecordValidationErrors(rejected)
	}
	if len(valid) == 0 {
		return 0, fmt.Errorf("no valid bars for %s", symbol)
	}

	priceBars := make([]models.PriceBar, len(valid))
	for i, bar := range valid {
		priceBars[i] = datasource.ToPriceBar(bar)
	}

	written, err := s.priceRepo.InsertBatch(ctx, symbol, priceBars)
	if err != nil {
		return written, fmt.Errorf("failed to store bars for %s: %w", symbol, err)
	}

	metrics.RecordBarsIngested(written)
	s.logger.Printf("Synced %s: %d bars written, %d rejected", symbol, written, rejected)
	return written, nil
}

// SyncAll ingests all configured symbols, continuing past per-symbol failures
func (s *IngestionService) SyncAll(ctx context.Context, symbols []string, startDate, endDate time.Time) (*IngestionMetrics, error) {
	s.metrics.Reset()
	startTime := time.Now()

	s.logger.Printf("Starting ingestion of %d symbols (%s to %s)",
		len(symbols), startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	s.metrics.TotalSymbols = len(symbols)

	var firstErr error
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			return s.metrics, ctx.Err()
		}

		written, err := s.SyncSymbol(ctx, symbol, startDate, endDate)
		if err != nil {
			s.metrics.RecordError()
			s.logger.Printf("Error syncing %s: %v", symbol, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		s.metrics.RecordSymbol(written)
	}

	s.metrics.Duration = time.Since(startTime)
	s.logger.Printf("Ingestion complete: %s", s.metrics)

	if s.metrics.SuccessfulSymbols == 0 && firstErr != nil {
		return s.metrics, fmt.Errorf("all symbols failed: %w", firstErr)
	}

	return s.metrics, nil
}

// GetMetrics returns current ingestion metrics
func (s *IngestionService) GetMetrics() *IngestionMetrics {
	return s.metrics
}
