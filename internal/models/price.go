package models

import (
	"fmt"
	"time"
)

// PriceBar represents one daily bar of end-of-day market data
type PriceBar struct {
	Date   time.Time `db:"bar_date" json:"date" validate:"required"`
	Open   float64   `db:"open" json:"open"`
	High   float64   `db:"high" json:"high"`
	Low    float64   `db:"low" json:"low"`
	Close  float64   `db:"close" json:"close" validate:"required,gt=0"`
	Volume int64     `db:"volume" json:"volume"`
}

// PriceSeries is the ordered daily bar history for one instrument.
// Bars are ascending by date with no duplicates; the series is read-only
// once handed to a backtest or optimizer run.
type PriceSeries struct {
	Symbol string     `json:"symbol"`
	Bars   []PriceBar `json:"bars"`
}

// NewPriceSeries constructs a series and verifies bar ordering
func NewPriceSeries(symbol string, bars []PriceBar) (*PriceSeries, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ErrInvalidConfiguration)
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return nil, fmt.Errorf("%w: bars out of order at index %d (%s >= %s)",
				ErrInvalidConfiguration, i, bars[i-1].Date.Format("2006-01-02"), bars[i].Date.Format("2006-01-02"))
		}
	}
	return &PriceSeries{Symbol: symbol, Bars: bars}, nil
}

// Len returns the number of bars in the series
func (s *PriceSeries) Len() int {
	return len(s.Bars)
}

// Closes returns the close prices in bar order
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, bar := range s.Bars {
		closes[i] = bar.Close
	}
	return closes
}

// Restrict returns the sub-series whose bars fall within [start, end].
// Zero time bounds are open-ended. The returned series shares the
// underlying bar storage; callers treat it as read-only.
func (s *PriceSeries) Restrict(start, end time.Time) *PriceSeries {
	lo := 0
	hi := len(s.Bars)
	if !start.IsZero() {
		for lo < hi && s.Bars[lo].Date.Before(start) {
			lo++
		}
	}
	if !end.IsZero() {
		for hi > lo && s.Bars[hi-1].Date.After(end) {
			hi--
		}
	}
	return &PriceSeries{Symbol: s.Symbol, Bars: s.Bars[lo:hi]}
}

// First returns the first bar of the series
func (s *PriceSeries) First() PriceBar {
	return s.Bars[0]
}

// Last returns the last bar of the series
func (s *PriceSeries) Last() PriceBar {
	return s.Bars[len(s.Bars)-1]
}
