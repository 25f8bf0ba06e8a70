package infrastructure

import (
	"context"
	"sort"
	"sync"
	"time"

	"solaretl/internal/domain"
	"solaretl/pkg/logger"
)

// in-memory record of per-date pipeline outcomes, keyed by report date
type RunRepository struct {
	data   map[string]domain.RunResult
	mutex  sync.RWMutex
	logger *logger.Logger
}

func NewRunRepository(logger *logger.Logger) *RunRepository {
	return &RunRepository{
		data:   make(map[string]domain.RunResult),
		logger: logger,
	}
}

func (r *RunRepository) Store(ctx context.Context, result domain.RunResult) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	dateKey := result.Date.Format("2006-01-02")
	r.data[dateKey] = result

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"date":   dateKey,
		"status": result.Status,
	}).Debug("Stored run result")
	return nil
}

func (r *RunRepository) GetByDate(ctx context.Context, date time.Time) (*domain.RunResult, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result, ok := r.data[date.Format("2006-01-02")]
	if !ok {
		return nil, nil
	}
	return &result, nil
}

func (r *RunRepository) List(ctx context.Context) ([]domain.RunResult, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	results := make([]domain.RunResult, 0, len(r.data))
	for _, result := range r.data {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Date.Before(results[j].Date)
	})
	return results, nil
}
