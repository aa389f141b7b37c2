package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/adaptive-ma/internal/database"
	"github.com/yourusername/adaptive-ma/internal/models"
)

const optimizationRecordColumns = `
	id, symbol, volatility, trend_strength, noise_ratio, ma_type,
	fast_window, slow_window, return_pct, win_rate_pct, sharpe_ratio,
	max_drawdown_pct, trade_count, created_at
`

// PostgresOptimizationRecordRepository implements OptimizationRecordRepository for PostgreSQL
type PostgresOptimizationRecordRepository struct {
	db *database.DB
}

// NewPostgresOptimizationRecordRepository creates a new optimization record repository
func NewPostgresOptimizationRecordRepository(db *database.DB) OptimizationRecordRepository {
	return &PostgresOptimizationRecordRepository{db: db}
}

// Insert stores a single optimization record
func (r *PostgresOptimizationRecordRepository) Insert(ctx context.Context, record *models.OptimizationRecord) error {
	query := `
		INSERT INTO optimization_records (` + optimizationRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		record.ID, record.Symbol, record.Volatility, record.TrendStrength, record.NoiseRatio,
		record.MAType, record.FastWindow, record.SlowWindow, record.ReturnPct, record.WinRatePct,
		record.SharpeRatio, record.MaxDrawdownPct, record.TradeCount, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert optimization record: %w", err)
	}

	return nil
}

// InsertBatch stores optimization records within a single transaction
func (r *PostgresOptimizationRecordRepository) InsertBatch(ctx context.Context, records []*models.OptimizationRecord) error {
	if len(records) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO optimization_records (` + optimizationRecordColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`

		for _, record := range records {
			_, err := tx.Exec(ctx, query,
				record.ID, record.Symbol, record.Volatility, record.TrendStrength, record.NoiseRatio,
				record.MAType, record.FastWindow, record.SlowWindow, record.ReturnPct, record.WinRatePct,
				record.SharpeRatio, record.MaxDrawdownPct, record.TradeCount, record.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert optimization record for %s: %w", record.Symbol, err)
			}
		}
		return nil
	})
}

// GetByID retrieves an optimization record by ID
func (r *PostgresOptimizationRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.OptimizationRecord, error) {
	query := `SELECT ` + optimizationRecordColumns + ` FROM optimization_records WHERE id = $1`

	record := &models.OptimizationRecord{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&record.ID, &record.Symbol, &record.Volatility, &record.TrendStrength, &record.NoiseRatio,
		&record.MAType, &record.FastWindow, &record.SlowWindow, &record.ReturnPct, &record.WinRatePct,
		&record.SharpeRatio, &record.MaxDrawdownPct, &record.TradeCount, &record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get optimization record: %w", err)
	}

	return record, nil
}

// GetLatestBySymbol retrieves the most recent optimization record for a symbol
func (r *PostgresOptimizationRecordRepository) GetLatestBySymbol(ctx context.Context, symbol string) (*models.OptimizationRecord, error) {
	query := `
		SELECT ` + optimizationRecordColumns + `
		FROM optimization_records
		WHERE symbol = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	record := &models.OptimizationRecord{}
	err := r.db.GetPool().QueryRow(ctx, query, symbol).Scan(
		&record.ID, &record.Symbol, &record.Volatility, &record.TrendStrength, &record.NoiseRatio,
		&record.MAType, &record.FastWindow, &record.SlowWindow, &record.ReturnPct, &record.WinRatePct,
		&record.SharpeRatio, &record.MaxDrawdownPct, &record.TradeCount, &record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest optimization record: %w", err)
	}

	return record, nil
}

// GetHistoryBySymbol retrieves recent optimization records for a symbol, newest first
func (r *PostgresOptimizationRecordRepository) GetHistoryBySymbol(ctx context.Context, symbol string, limit int) ([]*models.OptimizationRecord, error) {
	query := `
		SELECT ` + optimizationRecordColumns + `
		FROM optimization_records
		WHERE symbol = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query optimization history: %w", err)
	}
	defer rows.Close()

	var records []*models.OptimizationRecord
	for rows.Next() {
		record := &models.OptimizationRecord{}
		err := rows.Scan(
			&record.ID, &record.Symbol, &record.Volatility, &record.TrendStrength, &record.NoiseRatio,
			&record.MAType, &record.FastWindow, &record.SlowWindow, &record.ReturnPct, &record.WinRatePct,
			&record.SharpeRatio, &record.MaxDrawdownPct, &record.TradeCount, &record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan optimization record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
