package backtest

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// EquityPoint represents a point in the trade-compounded equity curve
type EquityPoint struct {
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
	Drawdown float64   `json:"drawdown"`
}

// EquityCurve represents the equity trajectory built by sequentially
// compounding trade returns from one unit of starting capital
type EquityCurve []EquityPoint

// BuildEquityCurve compounds the given trade returns in order. The curve
// always begins at 1.0; dates are the corresponding trade exit dates.
func BuildEquityCurve(start time.Time, exitDates []time.Time, returns []float64) EquityCurve {
	curve := EquityCurve{{Date: start, Value: 1.0}}
	value := 1.0
	peak := 1.0
	for i, r := range returns {
		value *= 1.0 + r
		if value > peak {
			peak = value
		}
		drawdown := 0.0
		if peak > 0 {
			drawdown = (peak - value) / peak
		}
		curve = append(curve, EquityPoint{Date: exitDates[i], Value: value, Drawdown: drawdown})
	}
	return curve
}

// Returns calculates periodic returns from the curve
func (e EquityCurve) Returns() []float64 {
	if len(e) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(e)-1)
	for i := 1; i < len(e); i++ {
		prev := e[i-1].Value
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (e[i].Value-prev)/prev)
	}
	return returns
}

// MaxDrawdown returns the maximum peak-to-trough decline as a fraction
func (e EquityCurve) MaxDrawdown() float64 {
	maxDD := 0.0
	peak := 0.0
	for _, p := range e {
		if p.Value > peak {
			peak = p.Value
		}
		if peak == 0 {
			continue
		}
		drawdown := (peak - p.Value) / peak
		if drawdown > maxDD {
			maxDD = drawdown
		}
	}
	return maxDD
}

// Final returns the last equity value, 1.0 for an empty curve
func (e EquityCurve) Final() float64 {
	if len(e) == 0 {
		return 1.0
	}
	return e[len(e)-1].Value
}

// ToCSV exports the curve to a CSV string
func (e EquityCurve) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("date,value,drawdown\n")
	for _, point := range e {
		buf.WriteString(point.Date.Format("2006-01-02"))
		buf.WriteString(",")
		buf.WriteString(strconv.FormatFloat(point.Value, 'f', 6, 64))
		buf.WriteString(",")
		buf.WriteString(strconv.FormatFloat(point.Drawdown, 'f', 6, 64))
		buf.WriteString("\n")
	}
	return buf.String()
}

// ToJSON exports the curve to a JSON string
func (e EquityCurve) ToJSON() string {
	data, _ := json.Marshal(e)
	return string(data)
}
