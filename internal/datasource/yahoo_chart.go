package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

const yahooSourceName = "yahoo_chart"

// YahooChartClient implements DataSource for the Yahoo Finance chart API
type YahooChartClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *log.Logger
}

// chartResponse mirrors the Yahoo Finance v8 chart payload
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Currency string `json:"currency"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// NewYahooChartClient creates a new Yahoo Finance chart API client
func NewYahooChartClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *log.Logger) *YahooChartClient {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &YahooChartClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchDailyBars retrieves daily OHLCV bars for a symbol within the date range
func (c *YahooChartClient) FetchDailyBars(ctx context.Context, symbol string, startDate, endDate time.Time) ([]BarData, error) {
	if !c.enabled {
		return nil, NewDataSourceError(yahooSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=history",
		c.baseURL, url.PathEscape(symbol), startDate.Unix(), endDate.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewDataSourceError(yahooSourceName, ErrCodeNetworkError, "failed to create request", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(yahooSourceName, ErrCodeNetworkError, "failed to fetch bars", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, NewDataSourceError(yahooSourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError(yahooSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewDataSourceError(yahooSourceName, ErrCodeNotFound, fmt.Sprintf("symbol %s not found", symbol), nil)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError(yahooSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewDataSourceError(yahooSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	if payload.Chart.Error != nil {
		return nil, NewDataSourceError(yahooSourceName, ErrCodeServerError,
			fmt.Sprintf("%s: %s", payload.Chart.Error.Code, payload.Chart.Error.Description), nil)
	}

	if len(payload.Chart.Result) == 0 {
		return nil, NewDataSourceError(yahooSourceName, ErrCodeNotFound, fmt.Sprintf("no chart data for %s", symbol), nil)
	}

	return c.convertResult(symbol, &payload.Chart.Result[0])
}

// Name returns the data source name
func (c *YahooChartClient) Name() string {
	return yahooSourceName
}

// IsEnabled returns whether this data source is enabled
func (c *YahooChartClient) IsEnabled() bool {
	return c.enabled
}

// convertResult converts a chart result into normalized bars, skipping days with
// missing values (halts, partial sessions)
func (c *YahooChartClient) convertResult(symbol string, result *chartResult) ([]BarData, error) {
	if len(result.Indicators.Quote) == 0 {
		return nil, NewDataSourceError(yahooSourceName, ErrCodeInvalidData, "missing quote block", nil)
	}

	quote := result.Indicators.Quote[0]
	priceSeries := []struct {
		name   string
		values []*float64
	}{
		{"open", quote.Open},
		{"high", quote.High},
		{"low", quote.Low},
		{"close", quote.Close},
	}
	for _, series := range priceSeries {
		if len(series.values) != len(result.Timestamp) {
			return nil, NewDataSourceError(yahooSourceName, ErrCodeInvalidData,
				fmt.Sprintf("timestamp/%s length mismatch: %d vs %d", series.name, len(result.Timestamp), len(series.values)), nil)
		}
	}

	now := time.Now().UTC()
	bars := make([]BarData, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			c.logger.Printf("Skipping bar with missing values for %s at index %d", symbol, i)
			continue
		}

		// Volume is optional in provider payloads; a truncated or absent
		// array means zero volume, not a rejected bar.
		var volume int64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}

		bars = append(bars, BarData{
			Symbol:    symbol,
			Date:      time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Open:      decimal.NewFromFloat(*quote.Open[i]),
			High:      decimal.NewFromFloat(*quote.High[i]),
			Low:       decimal.NewFromFloat(*quote.Low[i]),
			Close:     decimal.NewFromFloat(*quote.Close[i]),
			Volume:    volume,
			CreatedAt: now,
		})
	}

	if len(bars) == 0 {
		return nil, NewDataSourceError(yahooSourceName, ErrCodeNotFound, fmt.Sprintf("no usable bars for %s", symbol), nil)
	}

	return bars, nil
}
