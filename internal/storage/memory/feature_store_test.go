package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"price-feature-lab/internal/domain"
	"price-feature-lab/internal/storage"
)

func TestFeatureStore_InsertAndGetByRun(t *testing.T) {
	store := NewFeatureStore()
	ctx := context.Background()

	values := []*domain.FeatureValue{
		{RunID: "r1", Date: day(3), Column: "log_return", Value: 0.02},
		{RunID: "r1", Date: day(2), Column: "log_return", Value: 0.01},
		{RunID: "r1", Date: day(2), Column: "day_of_week", Value: 0},
		{RunID: "r2", Date: day(2), Column: "log_return", Value: 0.5},
	}
	if err := store.InsertBulk(ctx, values); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByRun(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByRun failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 values, got %d", len(got))
	}
	// Ordered by (date, column)
	if got[0].Column != "day_of_week" || got[1].Column != "log_return" || !got[2].Date.Equal(day(3)) {
		t.Errorf("Unexpected order: %s %s %v", got[0].Column, got[1].Column, got[2].Date)
	}

	col, err := store.GetColumn(ctx, "r1", "log_return")
	if err != nil {
		t.Fatalf("GetColumn failed: %v", err)
	}
	if len(col) != 2 || col[0].Value != 0.01 || col[1].Value != 0.02 {
		t.Errorf("Unexpected column values: %d", len(col))
	}
}

func TestFeatureStore_RunAlreadyStored(t *testing.T) {
	store := NewFeatureStore()
	ctx := context.Background()

	first := []*domain.FeatureValue{{RunID: "r1", Date: day(2), Column: "x", Value: 1}}
	if err := store.InsertBulk(ctx, first); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	// A run is written once; later batches for it are rejected
	err := store.InsertBulk(ctx, []*domain.FeatureValue{{RunID: "r1", Date: day(3), Column: "x", Value: 2}})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	err = store.InsertBulk(ctx, []*domain.FeatureValue{
		{RunID: "r2", Date: day(2), Column: "x", Value: 1},
		{RunID: "r2", Date: day(2), Column: "x", Value: 2},
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for intra-batch duplicate, got %v", err)
	}
}

func TestFeatureStore_RoundTripTable(t *testing.T) {
	store := NewFeatureStore()
	ctx := context.Background()

	table := domain.NewTable([]time.Time{day(2), day(3), day(4)})
	table.Set("log_return", []float64{0.1, 0.2, 0.3})
	table.Set("day_of_week", []float64{0, 1, 2})

	if err := store.InsertBulk(ctx, table.LongFormat("run")); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	values, err := store.GetByRun(ctx, "run")
	if err != nil {
		t.Fatalf("GetByRun failed: %v", err)
	}
	got, err := domain.TableFromLongFormat(values, table.Columns())
	if err != nil {
		t.Fatalf("TableFromLongFormat failed: %v", err)
	}
	if got.Len() != 3 || got.Value("log_return", 2) != 0.3 || got.Value("day_of_week", 1) != 1 {
		t.Errorf("Round trip mismatch")
	}
}
