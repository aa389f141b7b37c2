package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const chartPayload = `{
  "chart": {
    "result": [
      {
        "meta": {"symbol": "AAPL", "currency": "USD"},
        "timestamp": [1704153600, 1704240000, 1704326400],
        "indicators": {
          "quote": [
            {
              "open":   [184.35, 183.92, null],
              "high":   [185.40, 184.90, 183.00],
              "low":    [183.80, 182.75, 181.50],
              "close":  [185.14, 183.25, 182.40],
              "volume": [52164500, 47471400, null]
            }
          ]
        }
      }
    ],
    "error": null
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*YahooChartClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	httpClient := NewRateLimitedHTTPClient(cfg, nil)

	return NewYahooChartClient(httpClient, server.URL, "", true, nil), server
}

// TestFetchDailyBarsSuccess tests parsing a well-formed chart response
func TestFetchDailyBarsSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chartPayload))
	})

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	bars, err := client.FetchDailyBars(context.Background(), "AAPL", start, end)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Third bar has null open and must be skipped
	if len(bars) != 2 {
		t.Fatalf("expected 2 usable bars, got %d", len(bars))
	}

	if bars[0].Close.InexactFloat64() != 185.14 {
		t.Errorf("expected first close 185.14, got %v", bars[0].Close)
	}
	if bars[0].Volume != 52164500 {
		t.Errorf("expected first volume 52164500, got %d", bars[0].Volume)
	}
	if bars[0].Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %s", bars[0].Symbol)
	}
	if !bars[0].Date.Before(bars[1].Date) {
		t.Error("expected bars ordered by date")
	}
}

// TestFetchDailyBarsDisabled tests the disabled source guard
func TestFetchDailyBarsDisabled(t *testing.T) {
	client := NewYahooChartClient(nil, "http://unused", "", false, nil)

	_, err := client.FetchDailyBars(context.Background(), "AAPL", time.Now().AddDate(0, -1, 0), time.Now())
	if err == nil {
		t.Fatal("expected error for disabled source")
	}

	var dsErr DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("expected DataSourceError, got %T", err)
	}
}

// TestFetchDailyBarsNotFound tests 404 handling
func TestFetchDailyBarsNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.FetchDailyBars(context.Background(), "NOPE", time.Now().AddDate(0, -1, 0), time.Now())
	var dsErr DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("expected DataSourceError, got %v", err)
	}
	if dsErr.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, dsErr.Code)
	}
}

// TestFetchDailyBarsProviderError tests the embedded chart error object
func TestFetchDailyBarsProviderError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`))
	})

	_, err := client.FetchDailyBars(context.Background(), "NOPE", time.Now().AddDate(0, -1, 0), time.Now())
	var dsErr DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("expected DataSourceError, got %v", err)
	}
	if dsErr.Code != ErrCodeServerError {
		t.Errorf("expected code %s, got %s", ErrCodeServerError, dsErr.Code)
	}
}

// TestConvertResultTruncatedPriceArrays tests that a payload whose price
// arrays are shorter than the timestamp array is rejected, not indexed
func TestConvertResultTruncatedPriceArrays(t *testing.T) {
	client := NewYahooChartClient(nil, "http://unused", "", true, nil)

	result := &chartResult{Timestamp: []int64{1704153600, 1704240000}}
	result.Indicators.Quote = []chartQuote{{
		Open:   []*float64{floatPtr(184.35)},
		High:   []*float64{floatPtr(185.40), floatPtr(184.90)},
		Low:    []*float64{floatPtr(183.80), floatPtr(182.75)},
		Close:  []*float64{floatPtr(185.14), floatPtr(183.25)},
		Volume: []*int64{},
	}}

	bars, err := client.convertResult("AAPL", result)
	if err == nil {
		t.Fatalf("expected error for truncated open array, got %d bars", len(bars))
	}
	var dsErr DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("expected DataSourceError, got %v", err)
	}
	if dsErr.Code != ErrCodeInvalidData {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidData, dsErr.Code)
	}
}

// TestConvertResultMissingVolumeArray tests that bars parse with zero
// volume when the provider omits the volume array entirely
func TestConvertResultMissingVolumeArray(t *testing.T) {
	client := NewYahooChartClient(nil, "http://unused", "", true, nil)

	result := &chartResult{Timestamp: []int64{1704153600, 1704240000}}
	result.Indicators.Quote = []chartQuote{{
		Open:  []*float64{floatPtr(184.35), floatPtr(183.92)},
		High:  []*float64{floatPtr(185.40), floatPtr(184.90)},
		Low:   []*float64{floatPtr(183.80), floatPtr(182.75)},
		Close: []*float64{floatPtr(185.14), floatPtr(183.25)},
	}}

	bars, err := client.convertResult("AAPL", result)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	for i, bar := range bars {
		if bar.Volume != 0 {
			t.Errorf("bar %d: expected zero volume, got %d", i, bar.Volume)
		}
	}
}

func floatPtr(v float64) *float64 { return &v }

// TestCachedDataSource tests that repeated fetches hit the provider once
func TestCachedDataSource(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(chartPayload))
	})

	cached := NewCachedDataSource(client, time.Minute)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		bars, err := cached.FetchDailyBars(context.Background(), "AAPL", start, end)
		if err != nil {
			t.Fatalf("fetch %d: expected no error, got %v", i, err)
		}
		if len(bars) != 2 {
			t.Fatalf("fetch %d: expected 2 bars, got %d", i, len(bars))
		}
	}

	if requests != 1 {
		t.Errorf("expected 1 upstream request, got %d", requests)
	}

	cached.Invalidate("AAPL", start, end)
	if _, err := cached.FetchDailyBars(context.Background(), "AAPL", start, end); err != nil {
		t.Fatalf("expected no error after invalidation, got %v", err)
	}
	if requests != 2 {
		t.Errorf("expected 2 upstream requests after invalidation, got %d", requests)
	}
}

// TestToPriceSeries tests normalization into the storage model
func TestToPriceSeries(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartPayload))
	})

	bars, err := client.FetchDailyBars(context.Background(), "AAPL",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	series, err := ToPriceSeries("AAPL", bars)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if series.Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %s", series.Symbol)
	}
	if series.Len() != 2 {
		t.Fatalf("expected 2 bars, got %d", series.Len())
	}
	if series.Bars[0].Close != 185.14 {
		t.Errorf("expected close 185.14, got %v", series.Bars[0].Close)
	}
}

// TestCustomRetryPolicy tests retry decisions by status code
func TestCustomRetryPolicy(t *testing.T) {
	policy := customRetryPolicy()

	tests := []struct {
		name       string
		statusCode int
		retry      bool
	}{
		{"OK", 200, false},
		{"Bad request", 400, false},
		{"Unauthorized", 401, false},
		{"Rate limited", 429, true},
		{"Server error", 500, true},
		{"Bad gateway", 502, true},
		{"Service unavailable", 503, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{StatusCode: tt.statusCode}
			retry, _ := policy(context.Background(), resp, nil)
			if retry != tt.retry {
				t.Errorf("status %d: expected retry=%v, got %v", tt.statusCode, tt.retry, retry)
			}
		})
	}
}
