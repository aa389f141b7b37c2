package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/adaptive-ma/internal/models"
	"github.com/yourusername/adaptive-ma/internal/optimizer"
)

type fakeRecordRepo struct {
	inserted []*models.OptimizationRecord
	err      error
}

func (f *fakeRecordRepo) Insert(ctx context.Context, record *models.OptimizationRecord) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, record)
	return nil
}

func (f *fakeRecordRepo) InsertBatch(ctx context.Context, records []*models.OptimizationRecord) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, records...)
	return nil
}

func (f *fakeRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.OptimizationRecord, error) {
	return nil, models.ErrNotFound
}

func (f *fakeRecordRepo) GetLatestBySymbol(ctx context.Context, symbol string) (*models.OptimizationRecord, error) {
	return nil, models.ErrNotFound
}

func (f *fakeRecordRepo) GetHistoryBySymbol(ctx context.Context, symbol string, limit int) ([]*models.OptimizationRecord, error) {
	return nil, nil
}

func seedWalk(repo *fakePriceBarRepo, symbol string, n int, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	price := 100.0
	bars := make([]models.PriceBar, n)
	for i := range bars {
		price *= 1 + 0.002 + 0.01*(rng.Float64()-0.5)
		bars[i] = models.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   price * 0.999,
			High:   price * 1.005,
			Low:    price * 0.995,
			Close:  price,
			Volume: 1000,
		}
	}
	repo.stored[symbol] = bars
}

func newTestOptimizationService(t *testing.T, priceRepo *fakePriceBarRepo, recordRepo *fakeRecordRepo) *OptimizationService {
	t.Helper()

	cfg := optimizer.DefaultConfig()
	cfg.Pairs = []optimizer.Pair{{Fast: 3, Slow: 6}, {Fast: 5, Slow: 10}}
	cfg.Simulation.CostBps = 0

	opt, err := optimizer.New(cfg, nil)
	if err != nil {
		t.Fatalf("failed to build optimizer: %v", err)
	}

	return NewOptimizationService(priceRepo, recordRepo, opt, 2, nil)
}

// TestRunForSymbolsPersistsRecords tests the full sweep and persist flow
func TestRunForSymbolsPersistsRecords(t *testing.T) {
	priceRepo := newFakePriceBarRepo()
	seedWalk(priceRepo, "AAPL", 80, 7)
	seedWalk(priceRepo, "MSFT", 80, 11)
	recordRepo := &fakeRecordRepo{}

	svc := newTestOptimizationService(t, priceRepo, recordRepo)

	records, err := svc.RunForSymbols(context.Background(), []string{"AAPL", "MSFT"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if len(recordRepo.inserted) != 2 {
		t.Errorf("expected 2 persisted records, got %d", len(recordRepo.inserted))
	}
	for _, record := range records {
		if record.ID == uuid.Nil {
			t.Error("expected assigned record ID")
		}
		if record.FastWindow >= record.SlowWindow {
			t.Errorf("invalid window pair %d/%d", record.FastWindow, record.SlowWindow)
		}
	}
}

// TestRunForSymbolsDiscoversSymbols tests fallback to stored symbols
func TestRunForSymbolsDiscoversSymbols(t *testing.T) {
	priceRepo := newFakePriceBarRepo()
	seedWalk(priceRepo, "SPY", 80, 3)
	recordRepo := &fakeRecordRepo{}

	svc := newTestOptimizationService(t, priceRepo, recordRepo)

	records, err := svc.RunForSymbols(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(records) != 1 || records[0].Symbol != "SPY" {
		t.Errorf("expected one record for SPY, got %v", records)
	}
}

// TestRunForSymbolsSkipsMissingHistory tests that loadable symbols still run
func TestRunForSymbolsSkipsMissingHistory(t *testing.T) {
	priceRepo := newFakePriceBarRepo()
	seedWalk(priceRepo, "AAPL", 80, 5)
	recordRepo := &fakeRecordRepo{}

	svc := newTestOptimizationService(t, priceRepo, recordRepo)

	records, err := svc.RunForSymbols(context.Background(), []string{"AAPL", "MISSING"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record, got %d", len(records))
	}
}

// TestRunForSymbolsNoHistory tests the empty storage error
func TestRunForSymbolsNoHistory(t *testing.T) {
	svc := newTestOptimizationService(t, newFakePriceBarRepo(), &fakeRecordRepo{})

	if _, err := svc.RunForSymbols(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty storage")
	}
}

// TestRunForSymbolsPersistFailure tests that records are still returned on persist errors
func TestRunForSymbolsPersistFailure(t *testing.T) {
	priceRepo := newFakePriceBarRepo()
	seedWalk(priceRepo, "AAPL", 80, 9)
	recordRepo := &fakeRecordRepo{err: errors.New("db down")}

	svc := newTestOptimizationService(t, priceRepo, recordRepo)

	records, err := svc.RunForSymbols(context.Background(), []string{"AAPL"})
	if err == nil {
		t.Fatal("expected persist error")
	}
	if len(records) != 1 {
		t.Errorf("expected records returned despite persist failure, got %d", len(records))
	}
}
