package optimizer

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/adaptive-ma/internal/logger"
	"github.com/yourusername/adaptive-ma/internal/models"
)

// InstrumentResult is the per-instrument outcome of a pooled run. A
// failed instrument carries its error and never affects the others.
type InstrumentResult struct {
	Symbol string
	Record *models.OptimizationRecord
	Err    error
}

// RunAll optimizes every instrument concurrently. Each worker owns the
// series it processes; no state is shared across instrument runs, so no
// locking is needed beyond the result slot assignment by index.
func (o *Optimizer) RunAll(ctx context.Context, seriesList []*models.PriceSeries, workers int) []InstrumentResult {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(seriesList) {
		workers = len(seriesList)
	}

	results := make([]InstrumentResult, len(seriesList))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				series := seriesList[index]
				record, err := o.Optimize(series)
				results[index] = InstrumentResult{Symbol: series.Symbol, Record: record, Err: err}
				if err != nil {
					logger.ForSymbol(o.logger, series.Symbol).WithError(err).Warn("Instrument optimization failed")
				}
			}
		}()
	}

	for index := range seriesList {
		select {
		case <-ctx.Done():
			results[index] = InstrumentResult{Symbol: seriesList[index].Symbol, Err: ctx.Err()}
			continue
		case jobs <- index:
		}
	}
	close(jobs)
	wg.Wait()

	succeeded := 0
	for _, result := range results {
		if result.Err == nil {
			succeeded++
		}
	}
	o.logger.WithFields(logrus.Fields{
		"instruments": len(seriesList),
		"succeeded":   succeeded,
	}).Info("Optimization pool completed")
	return results
}
