package service

import (
	"fmt"
	"log"

	"github.com/yourusername/adaptive-ma/internal/datasource"
)

// BarValidator validates daily bar data before persistence
type BarValidator struct {
	logger *log.Logger
}

// NewBarValidator creates a new bar validator
func NewBarValidator(logger *log.Logger) *BarValidator {
	return &BarValidator{logger: logger}
}

// ValidateBar checks a single bar for required fields and OHLC consistency
func (v *BarValidator) ValidateBar(bar *datasource.BarData) []string {
	var errors []string

	if bar.Symbol == "" {
		errors = append(errors, "symbol is required")
	}

	if bar.Date.IsZero() {
		errors = append(errors, "date is required")
	}

	open := bar.Open.InexactFloat64()
	high := bar.High.InexactFloat64()
	low := bar.Low.InexactFloat64()
	close := bar.Close.InexactFloat64()

	if open <= 0 || high <= 0 || low <= 0 || close <= 0 {
		errors = append(errors, "prices must be positive")
		return errors
	}

	if high < low {
		errors = append(errors, fmt.Sprintf("high %.4f below low %.4f", high, low))
	}

	if close > high || close < low {
		errors = append(errors, fmt.Sprintf("close %.4f outside [%.4f, %.4f]", close, low, high))
	}

	if open > high || open < low {
		errors = append(errors, fmt.Sprintf("open %.4f outside [%.4f, %.4f]", open, low, high))
	}

	if bar.Volume < 0 {
		errors = append(errors, fmt.Sprintf("volume cannot be negative, got %d", bar.Volume))
	}

	return errors
}

// FilterValid splits bars into valid and rejected sets, logging each rejection
func (v *BarValidator) FilterValid(bars []datasource.BarData) ([]datasource.BarData, int) {
	valid := make([]datasource.BarData, 0, len(bars))
	rejected := 0

	for i := range bars {
		if errs := v.ValidateBar(&bars[i]); len(errs) > 0 {
			rejected++
			if v.logger != nil {
				v.logger.Printf("Rejected bar %s %s: %v", bars[i].Symbol, bars[i].Date.Format("2006-01-02"), errs)
			}
			continue
		}
		valid = append(valid, bars[i])
	}

	return valid, rejected
}
