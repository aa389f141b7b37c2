// Package repository provides data access for price history and optimization results.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/adaptive-ma/internal/models"
)

// PriceBarRepository defines the interface for price history data access
type PriceBarRepository interface {
	InsertBatch(ctx context.Context, symbol string, bars []models.PriceBar) (int, error)
	GetBySymbolAndRange(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, error)
	GetSymbols(ctx context.Context) ([]string, error)
	DeleteBySymbol(ctx context.Context, symbol string) error
}

// OptimizationRecordRepository defines the interface for optimization result data access
type OptimizationRecordRepository interface {
	Insert(ctx context.Context, record *models.OptimizationRecord) error
	InsertBatch(ctx context.Context, records []*models.OptimizationRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.OptimizationRecord, error)
	GetLatestBySymbol(ctx context.Context, symbol string) (*models.OptimizationRecord, error)
	GetHistoryBySymbol(ctx context.Context, symbol string, limit int) ([]*models.OptimizationRecord, error)
}
