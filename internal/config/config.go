// Package config provides configuration management for the adaptive MA optimizer.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	MarketData MarketDataConfig `mapstructure:"market_data" validate:"required"`
	Optimizer  OptimizerConfig  `mapstructure:"optimizer" validate:"required"`
	Backtest   BacktestConfig   `mapstructure:"backtest" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Schedule   ScheduleConfig   `mapstructure:"schedule" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// MarketDataConfig represents the external market-data provider configuration
type MarketDataConfig struct {
	BaseURL            string   `mapstructure:"base_url" validate:"required,url"`
	APIKey             string   `mapstructure:"api_key"`
	Enabled            bool     `mapstructure:"enabled"`
	TimeoutSeconds     int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries         int      `mapstructure:"max_retries" validate:"gte=0"`
	RateLimitPerSecond float64  `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	CacheTTLSeconds    int      `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	Symbols            []string `mapstructure:"symbols" validate:"required,min=1"`
}

// MAPairConfig represents one candidate fast/slow window pair
type MAPairConfig struct {
	Fast int `mapstructure:"fast" validate:"required,gte=2"`
	Slow int `mapstructure:"slow" validate:"required,gtfield=Fast"`
}

// OptimizerConfig represents the regime-driven optimization configuration
type OptimizerConfig struct {
	Pairs               []MAPairConfig `mapstructure:"pairs" validate:"required,min=1,dive"`
	VolatilityThreshold float64        `mapstructure:"volatility_threshold" validate:"gte=0"`
	TrendThreshold      float64        `mapstructure:"trend_threshold" validate:"gte=0"`
	AnalysisStart       string         `mapstructure:"analysis_start" validate:"omitempty,datetime=2006-01-02"`
	AnalysisEnd         string         `mapstructure:"analysis_end" validate:"omitempty,datetime=2006-01-02"`
	RankKey             string         `mapstructure:"rank_key" validate:"required,oneof=sharpe return"`
	CompareBothTypes    bool           `mapstructure:"compare_both_types"`
	Workers             int            `mapstructure:"workers" validate:"required,gt=0"`
	OutputPath          string         `mapstructure:"output_path" validate:"required"`
}

// BacktestConfig represents the simulation exit-rule configuration
type BacktestConfig struct {
	StopLossPct       float64 `mapstructure:"stop_loss_pct" validate:"gte=0,lt=1"`
	TakeProfitPct     float64 `mapstructure:"take_profit_pct" validate:"gte=0"`
	MaxHoldDays       int     `mapstructure:"max_hold_days" validate:"required,gt=0"`
	CostBps           float64 `mapstructure:"cost_bps" validate:"gte=0"`
	IncludeUnrealized bool    `mapstructure:"include_unrealized"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// ScheduleConfig represents cron expressions for the scheduler daemon
type ScheduleConfig struct {
	DataSync string `mapstructure:"data_sync" validate:"required"`
	Optimize string `mapstructure:"optimize" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
