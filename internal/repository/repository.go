package repository

import (
	"fmt"

	"github.com/yourusername/adaptive-ma/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	PriceBar           PriceBarRepository
	OptimizationRecord OptimizationRecordRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		PriceBar:           NewPostgresPriceBarRepository(db),
		OptimizationRecord: NewPostgresOptimizationRecordRepository(db),
	}, nil
}
