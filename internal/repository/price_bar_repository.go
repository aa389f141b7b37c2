package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/adaptive-ma/internal/database"
	"github.com/yourusername/adaptive-ma/internal/models"
)

const errScanPriceBar = "failed to scan price bar: %w"

// PostgresPriceBarRepository implements PriceBarRepository for PostgreSQL
type PostgresPriceBarRepository struct {
	db *database.DB
}

// NewPostgresPriceBarRepository creates a new price bar repository
func NewPostgresPriceBarRepository(db *database.DB) PriceBarRepository {
	return &PostgresPriceBarRepository{db: db}
}

// InsertBatch upserts a batch of bars for a symbol and returns the number written.
// Re-fetching the same range is routine, so conflicting rows are overwritten.
func (r *PostgresPriceBarRepository) InsertBatch(ctx context.Context, symbol string, bars []models.PriceBar) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO price_bars (symbol, date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`

	batch := &pgx.Batch{}
	for _, bar := range bars {
		batch.Queue(query, symbol, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	for range bars {
		if _, err := results.Exec(); err != nil {
			return written, fmt.Errorf("failed to insert price bars for %s: %w", symbol, err)
		}
		written++
	}

	return written, nil
}

// GetBySymbolAndRange retrieves bars for a symbol within a date range, ordered by date.
// Zero start or end times leave that side of the range open.
func (r *PostgresPriceBarRepository) GetBySymbolAndRange(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, error) {
	query := `
		SELECT date, open, high, low, close, volume
		FROM price_bars
		WHERE symbol = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date ASC
	`

	var startArg, endArg interface{}
	if !start.IsZero() {
		startArg = start
	}
	if !end.IsZero() {
		endArg = end
	}

	rows, err := r.db.GetPool().Query(ctx, query, symbol, startArg, endArg)
	if err != nil {
		return nil, fmt.Errorf("failed to query price bars: %w", err)
	}
	defer rows.Close()

	var bars []models.PriceBar
	for rows.Next() {
		var bar models.PriceBar
		if err := rows.Scan(&bar.Date, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, fmt.Errorf(errScanPriceBar, err)
		}
		bars = append(bars, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read price bars: %w", err)
	}

	if len(bars) == 0 {
		return nil, models.ErrNotFound
	}

	return models.NewPriceSeries(symbol, bars)
}

// GetSymbols returns all distinct symbols with stored history
func (r *PostgresPriceBarRepository) GetSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.db.GetPool().Query(ctx, "SELECT DISTINCT symbol FROM price_bars ORDER BY symbol")
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}

	return symbols, rows.Err()
}

// DeleteBySymbol removes all stored bars for a symbol
func (r *PostgresPriceBarRepository) DeleteBySymbol(ctx context.Context, symbol string) error {
	if _, err := r.db.GetPool().Exec(ctx, "DELETE FROM price_bars WHERE symbol = $1", symbol); err != nil {
		return fmt.Errorf("failed to delete price bars for %s: %w", symbol, err)
	}
	return nil
}
