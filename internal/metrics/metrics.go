// Package metrics provides centralized Prometheus metrics registry for the optimizer.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	OptimizationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adaptive_ma",
		Name:      "optimization_runs_total",
		Help:      "Total number of per-symbol optimization runs by status",
	}, []string{"status"})
	BarsIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "adaptive_ma",
		Name:      "bars_ingested_total",
		Help:      "Total number of daily bars written to storage",
	})
	DataFetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adaptive_ma",
		Name:      "data_fetch_errors_total",
		Help:      "Total number of market data fetch failures by source",
	}, []string{"source"})
	CandidatesEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "adaptive_ma",
		Name:      "candidates_evaluated_total",
		Help:      "Total number of window pair candidates backtested",
	})
)

// Gauge metrics
var (
	BestSharpeRatio = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "adaptive_ma",
		Name:      "best_sharpe_ratio",
		Help:      "Sharpe ratio of the winning candidate for each symbol",
	}, []string{"symbol"})
	BestReturnPct = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "adaptive_ma",
		Name:      "best_return_pct",
		Help:      "Compounded return of the winning candidate for each symbol",
	}, []string{"symbol"})
	TrackedSymbols = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "adaptive_ma",
		Name:      "tracked_symbols",
		Help:      "Number of symbols with stored price history",
	})
	LastOptimizationTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "adaptive_ma",
		Name:      "last_optimization_timestamp_seconds",
		Help:      "Unix timestamp of the most recent completed optimization run",
	})
)

// Histogram metrics
var (
	SweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "adaptive_ma",
		Name:      "sweep_duration_seconds",
		Help:      "Duration of per-symbol candidate sweeps in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	})
	DataFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "adaptive_ma",
		Name:      "data_fetch_duration_seconds",
		Help:      "Duration of market data fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(OptimizationRunsTotal)
		registry.MustRegister(BarsIngestedTotal)
		registry.MustRegister(DataFetchErrorsTotal)
		registry.MustRegister(CandidatesEvaluatedTotal)

		registry.MustRegister(BestSharpeRatio)
		registry.MustRegister(BestReturnPct)
		registry.MustRegister(TrackedSymbols)
		registry.MustRegister(LastOptimizationTimestamp)

		registry.MustRegister(SweepDuration)
		registry.MustRegister(DataFetchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordOptimizationRun records a completed per-symbol run.
// status should be one of: "success", "failure", "skipped"
func RecordOptimizationRun(status string, durationSeconds float64) {
	OptimizationRunsTotal.WithLabelValues(status).Inc()
	SweepDuration.Observe(durationSeconds)
}

// RecordBarsIngested records bars written to storage.
func RecordBarsIngested(count int) {
	BarsIngestedTotal.Add(float64(count))
}

// RecordDataFetchError records a market data fetch failure.
func RecordDataFetchError(source string) {
	DataFetchErrorsTotal.WithLabelValues(source).Inc()
}

// RecordCandidateEvaluated records a backtested window pair.
func RecordCandidateEvaluated() {
	CandidatesEvaluatedTotal.Inc()
}

// UpdateBestResult publishes the winning candidate's headline numbers for a symbol.
func UpdateBestResult(symbol string, sharpe, returnPct float64) {
	BestSharpeRatio.WithLabelValues(symbol).Set(sharpe)
	BestReturnPct.WithLabelValues(symbol).Set(returnPct)
}

// UpdateTrackedSymbols updates the tracked symbol count gauge.
func UpdateTrackedSymbols(count int) {
	TrackedSymbols.Set(float64(count))
}

// RecordDataFetchDuration records how long a market data fetch took.
func RecordDataFetchDuration(durationSeconds float64) {
	DataFetchDuration.Observe(durationSeconds)
}
