package datasource

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/adaptive-ma/internal/config"
)

// SourceType represents the type of data source
type SourceType string

const (
	// Yahoo Finance chart API data source type
	YahooSourceType SourceType = "yahoo_chart"
)

// Factory creates DataSource implementations based on configuration
type Factory struct {
	logger *log.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *log.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// NewMarketDataSource creates the configured provider wrapped in a TTL cache
func (f *Factory) NewMarketDataSource() (DataSource, error) {
	if f.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	md := f.config.MarketData

	httpCfg := DefaultHTTPClientConfig()
	if md.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(md.TimeoutSeconds) * time.Second
	}
	if md.MaxRetries > 0 {
		httpCfg.MaxRetries = md.MaxRetries
	}
	if md.RateLimitPerSecond > 0 {
		httpCfg.RateLimit = md.RateLimitPerSecond
	}

	httpClient := NewRateLimitedHTTPClient(httpCfg, f.logger)
	client := NewYahooChartClient(httpClient, md.BaseURL, md.APIKey, md.Enabled, f.logger)

	ttl := 15 * time.Minute
	if md.CacheTTLSeconds > 0 {
		ttl = time.Duration(md.CacheTTLSeconds) * time.Second
	}

	if f.logger != nil {
		f.logger.Printf("Created data source: %s (cache TTL %s)", client.Name(), ttl)
	}

	return NewCachedDataSource(client, ttl), nil
}
