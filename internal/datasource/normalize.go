package datasource

import (
	"sort"

	"github.com/yourusername/adaptive-ma/internal/models"
)

// ToPriceBar converts a provider bar into the storage model
func ToPriceBar(bar BarData) models.PriceBar {
	return models.PriceBar{
		Date:   bar.Date,
		Open:   bar.Open.InexactFloat64(),
		High:   bar.High.InexactFloat64(),
		Low:    bar.Low.InexactFloat64(),
		Close:  bar.Close.InexactFloat64(),
		Volume: bar.Volume,
	}
}

// ToPriceSeries converts provider bars into a validated price series.
// Bars are sorted by date first since providers do not guarantee ordering.
func ToPriceSeries(symbol string, bars []BarData) (*models.PriceSeries, error) {
	sorted := make([]BarData, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	priceBars := make([]models.PriceBar, len(sorted))
	for i, bar := range sorted {
		priceBars[i] = ToPriceBar(bar)
	}

	return models.NewPriceSeries(symbol, priceBars)
}
