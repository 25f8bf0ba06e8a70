package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solaretl/internal/domain"
	"solaretl/pkg/logger"
)

func runResult(day int, status domain.RunStatus) domain.RunResult {
	return domain.RunResult{
		RunID:  "run-" + string(rune('0'+day)),
		Date:   time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Status: status,
	}
}

func TestRunRepositoryStoreAndGet(t *testing.T) {
	repo := NewRunRepository(logger.New("error"))
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, runResult(1, domain.RunStatusSuccess)))

	result, err := repo.GetByDate(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.RunStatusSuccess, result.Status)
}

func TestRunRepositoryGetMissing(t *testing.T) {
	repo := NewRunRepository(logger.New("error"))

	result, err := repo.GetByDate(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestRunRepositoryRerunOverwrites(t *testing.T) {
	repo := NewRunRepository(logger.New("error"))
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, runResult(1, domain.RunStatusFailed)))
	require.NoError(t, repo.Store(ctx, runResult(1, domain.RunStatusSuccess)))

	result, err := repo.GetByDate(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.RunStatusSuccess, result.Status)

	results, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestRunRepositoryListSorted(t *testing.T) {
	repo := NewRunRepository(logger.New("error"))
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, runResult(3, domain.RunStatusSuccess)))
	require.NoError(t, repo.Store(ctx, runResult(1, domain.RunStatusSuccess)))
	require.NoError(t, repo.Store(ctx, runResult(2, domain.RunStatusFailed)))

	results, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.True(t, results[i-1].Date.Before(results[i].Date))
	}
}
