package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about data ingestion
type IngestionMetrics struct {
	mu                sync.RWMutex
	StartTime         time.Time
	Duration          time.Duration
	TotalSymbols      int
	SuccessfulSymbols int
	TotalBars         int
	ValidationErrors  int
	Errors            int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.TotalSymbols = 0
	m.SuccessfulSymbols = 0
	m.TotalBars = 0
	m.ValidationErrors = 0
	m.Errors = 0
}

// RecordSymbol increments the successful symbol count
func (m *IngestionMetrics) RecordSymbol(bars int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SuccessfulSymbols++
	m.TotalBars += bars
}

// RecordValidationErrors adds rejected bar count
func (m *IngestionMetrics) RecordValidationErrors(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors += count
}

// RecordError increments the error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	successRate := float64(0)
	if m.TotalSymbols > 0 {
		successRate = float64(m.SuccessfulSymbols) / float64(m.TotalSymbols) * 100
	}

	return fmt.Sprintf(
		"IngestionMetrics{Symbols=%d, Successful=%d (%.1f%%), Bars=%d, ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.TotalSymbols, m.SuccessfulSymbols, successRate, m.TotalBars, m.ValidationErrors, m.Errors, m.Duration,
	)
}
