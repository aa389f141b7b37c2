// Package indicator computes moving-average sequences over price series.
package indicator

import (
	"fmt"

	"github.com/yourusername/adaptive-ma/internal/models"
)

// MAType identifies the moving-average flavor
type MAType string

// Supported moving-average types
const (
	SMA MAType = "SMA"
	EMA MAType = "EMA"
)

// Valid reports whether the type is a known moving-average flavor
func (t MAType) Valid() bool {
	return t == SMA || t == EMA
}

// Series holds moving-average values aligned to the source bars.
// Values before Start (the first index where the window is filled)
// are undefined and must not drive any signal.
type Series struct {
	Type   MAType
	Window int
	Start  int
	Values []float64
}

// At returns the value at bar index i and whether it is defined
func (s Series) At(i int) (float64, bool) {
	if i < s.Start || i >= len(s.Values) {
		return 0, false
	}
	return s.Values[i], true
}

// Compute produces the moving-average series for the given window and type.
// It is a pure function of its inputs: the same series, window and type
// always yield the same values.
func Compute(series *models.PriceSeries, window int, maType MAType) (Series, error) {
	if window < 2 {
		return Series{}, fmt.Errorf("%w: window must be at least 2, got %d", models.ErrInvalidConfiguration, window)
	}
	if !maType.Valid() {
		return Series{}, fmt.Errorf("%w: unknown ma type %q", models.ErrInvalidConfiguration, maType)
	}
	closes := series.Closes()
	if len(closes) < window {
		return Series{}, fmt.Errorf("%w: %d bars, window %d", models.ErrInsufficientData, len(closes), window)
	}

	out := Series{
		Type:   maType,
		Window: window,
		Start:  window - 1,
		Values: make([]float64, len(closes)),
	}
	switch maType {
	case SMA:
		fillSMA(out.Values, closes, window)
	case EMA:
		fillEMA(out.Values, closes, window)
	}
	return out, nil
}

func fillSMA(values, closes []float64, window int) {
	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
		}
		if i >= window-1 {
			values[i] = sum / float64(window)
		}
	}
}

// fillEMA seeds the series with the SMA of the first window closes,
// then applies the recursive form with alpha = 2/(window+1).
func fillEMA(values, closes []float64, window int) {
	seed := 0.0
	for _, c := range closes[:window] {
		seed += c
	}
	seed /= float64(window)

	alpha := 2.0 / (float64(window) + 1.0)
	values[window-1] = seed
	for i := window; i < len(closes); i++ {
		values[i] = closes[i]*alpha + values[i-1]*(1.0-alpha)
	}
}
