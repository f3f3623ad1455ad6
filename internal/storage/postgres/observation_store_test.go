package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-feature-lab/internal/domain"
	"price-feature-lab/internal/storage"
)

func TestObservationStore_InsertBulkAndQuery(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewObservationStore(pool)
	ctx := context.Background()

	obs := []*domain.Observation{
		{SeriesID: "PETR4", Date: date(2023, time.January, 3), Value: 23.1},
		{SeriesID: "PETR4", Date: date(2023, time.January, 2), Value: 22.9},
		{SeriesID: "PETR4", Date: date(2023, time.January, 4), Value: 23.4},
		{SeriesID: "SELIC", Date: date(2023, time.January, 2), Value: 13.75},
	}
	require.NoError(t, store.InsertBulk(ctx, obs))

	got, err := store.GetBySeries(ctx, "PETR4")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Date.Equal(date(2023, time.January, 2)))
	assert.Equal(t, 22.9, got[0].Value)
	assert.Equal(t, 23.4, got[2].Value)

	ranged, err := store.GetByDateRange(ctx, "PETR4", date(2023, time.January, 3), date(2023, time.January, 4))
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	ids, err := store.ListSeries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"PETR4", "SELIC"}, ids)
}

func TestObservationStore_DuplicateRejectsBatch(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewObservationStore(pool)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.Observation{
		{SeriesID: "A", Date: date(2023, time.March, 1), Value: 1},
	}))

	err := store.InsertBulk(ctx, []*domain.Observation{
		{SeriesID: "A", Date: date(2023, time.March, 2), Value: 2},
		{SeriesID: "A", Date: date(2023, time.March, 1), Value: 3},
	})
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey), "got %v", err)

	got, err := store.GetBySeries(ctx, "A")
	require.NoError(t, err)
	assert.Len(t, got, 1, "batch must be rolled back")
}
