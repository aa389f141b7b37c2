package database

import (
	"context"
	"fmt"

	"github.com/yourusername/adaptive-ma/internal/config"
)

const priceBarsSchema = `
CREATE TABLE IF NOT EXISTS price_bars (
    symbol      TEXT             NOT NULL,
    date        TIMESTAMPTZ      NOT NULL,
    open        DOUBLE PRECISION NOT NULL,
    high        DOUBLE PRECISION NOT NULL,
    low         DOUBLE PRECISION NOT NULL,
    close       DOUBLE PRECISION NOT NULL,
    volume      BIGINT           NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ      NOT NULL DEFAULT now(),
    PRIMARY KEY (symbol, date)
)`

const optimizationRecordsSchema = `
CREATE TABLE IF NOT EXISTS optimization_records (
    id               UUID             PRIMARY KEY,
    symbol           TEXT             NOT NULL,
    volatility       DOUBLE PRECISION NOT NULL,
    trend_strength   DOUBLE PRECISION NOT NULL,
    noise_ratio      DOUBLE PRECISION NOT NULL,
    ma_type          TEXT             NOT NULL,
    fast_window      INTEGER          NOT NULL,
    slow_window      INTEGER          NOT NULL,
    return_pct       DOUBLE PRECISION NOT NULL,
    win_rate_pct     DOUBLE PRECISION NOT NULL,
    sharpe_ratio     DOUBLE PRECISION NOT NULL,
    max_drawdown_pct DOUBLE PRECISION NOT NULL,
    trade_count      INTEGER          NOT NULL,
    created_at       TIMESTAMPTZ      NOT NULL DEFAULT now()
)`

const optimizationRecordsIndex = `
CREATE INDEX IF NOT EXISTS idx_optimization_records_symbol_created
    ON optimization_records (symbol, created_at DESC)`

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	for _, stmt := range []string{priceBarsSchema, optimizationRecordsSchema, optimizationRecordsIndex} {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	// When TimescaleDB is installed, store price bars as a hypertable.
	// Plain PostgreSQL works too, so a failure here is not fatal.
	var extName string
	err = db.pool.QueryRow(ctx, "SELECT extname FROM pg_extension WHERE extname = 'timescaledb'").Scan(&extName)
	if err == nil && extName == "timescaledb" {
		_, _ = db.pool.Exec(ctx,
			"SELECT create_hypertable('price_bars', 'date', if_not_exists => TRUE, migrate_data => TRUE)")
	}

	return db, nil
}
