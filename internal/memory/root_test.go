package memory_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/appclacks/slo-dashboard/internal/memory"
	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
	"github.com/stretchr/testify/assert"
)

func TestSLOCRUD(t *testing.T) {
	ctx := context.Background()
	store, err := memory.New(slog.Default(), memory.Configuration{})
	assert.NoError(t, err)

	record := &aggregates.SLO{ID: "slo-100", Name: "checkout", Tags: []string{"payment"}}
	assert.NoError(t, store.CreateSLO(ctx, record))
	assert.ErrorContains(t, store.CreateSLO(ctx, record), "already exists")

	// the store keeps its own copy
	record.Tags[0] = "changed"
	stored, err := store.GetSLO(ctx, "slo-100")
	assert.NoError(t, err)
	assert.Equal(t, []string{"payment"}, stored.Tags)

	stored.Name = "checkout v2"
	assert.NoError(t, store.UpdateSLO(ctx, stored))
	stored, err = store.GetSLO(ctx, "slo-100")
	assert.NoError(t, err)
	assert.Equal(t, "checkout v2", stored.Name)
	assert.ErrorContains(t, store.UpdateSLO(ctx, &aggregates.SLO{ID: "missing"}), "not found")

	count, err := store.CountSLOs(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.NoError(t, store.DeleteSLO(ctx, "slo-100"))
	assert.ErrorContains(t, store.DeleteSLO(ctx, "slo-100"), "not found")
	_, err = store.GetSLO(ctx, "slo-100")
	assert.ErrorContains(t, err, "not found")
}

func TestSeed(t *testing.T) {
	store, err := memory.New(slog.Default(), memory.Configuration{Seed: true})
	assert.NoError(t, err)
	records, err := store.ListSLOs(context.Background())
	assert.NoError(t, err)
	assert.Len(t, records, 8)
	assert.Equal(t, "slo-001", records[0].ID)
	assert.Nil(t, records[7].CurrentValue)
}

func TestApplyChanges(t *testing.T) {
	ctx := context.Background()
	store, err := memory.New(slog.Default(), memory.Configuration{Seed: true})
	assert.NoError(t, err)

	updated, err := store.GetSLO(ctx, "slo-002")
	assert.NoError(t, err)
	updated.MonitoringEnabled = false
	err = store.ApplyChanges(ctx, aggregates.Changes{
		Created: []*aggregates.SLO{{ID: "slo-009", Name: "new"}},
		Updated: []*aggregates.SLO{updated},
		Deleted: []string{"slo-001"},
	})
	assert.NoError(t, err)
	records, err := store.ListSLOs(ctx)
	assert.NoError(t, err)
	assert.Len(t, records, 8)
	assert.Equal(t, "slo-002", records[0].ID)
	assert.False(t, records[0].MonitoringEnabled)
	assert.Equal(t, "slo-009", records[7].ID)

	// nothing is applied when one change is rejected
	err = store.ApplyChanges(ctx, aggregates.Changes{
		Created: []*aggregates.SLO{{ID: "slo-010"}},
		Deleted: []string{"slo-002"},
		Updated: []*aggregates.SLO{{ID: "missing"}},
	})
	assert.ErrorContains(t, err, "not found")
	count, err := store.CountSLOs(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 8, count)

	err = store.ApplyChanges(ctx, aggregates.Changes{
		Created: []*aggregates.SLO{{ID: "slo-003"}},
	})
	assert.ErrorContains(t, err, "already exists")
}

func TestDrafts(t *testing.T) {
	ctx := context.Background()
	store, err := memory.New(slog.Default(), memory.Configuration{})
	assert.NoError(t, err)
	value, err := store.GetDraft(ctx, "key")
	assert.NoError(t, err)
	assert.Nil(t, value)
	assert.NoError(t, store.SaveDraft(ctx, "key", "{}"))
	value, err = store.GetDraft(ctx, "key")
	assert.NoError(t, err)
	assert.Equal(t, "{}", *value)
	assert.NoError(t, store.DeleteDraft(ctx, "key"))
	assert.NoError(t, store.DeleteDraft(ctx, "key"))
}

func TestLatency(t *testing.T) {
	store, err := memory.New(slog.Default(), memory.Configuration{Latency: "50ms"})
	assert.NoError(t, err)

	start := time.Now()
	_, err = store.CountSLOs(context.Background())
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.ListSLOs(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = memory.New(slog.Default(), memory.Configuration{Latency: "soon"})
	assert.Error(t, err)
}
