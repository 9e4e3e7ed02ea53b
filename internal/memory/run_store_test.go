package memory

import (
	"context"
	"testing"
	"time"

	"datascout/domain/analysis"
	"datascout/domain/core"
)

func TestRunStoreSaveGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	id := core.NewRunID()
	result := &analysis.PipelineResult{
		ID:          id,
		DatasetName: "sales",
		Status:      analysis.StatusInProgress,
		CreatedAt:   core.Now(),
	}
	if err := store.Save(ctx, result); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.DatasetName != "sales" || got.Status != analysis.StatusInProgress {
		t.Errorf("got %+v", got)
	}

	// Mutating the caller's copy must not leak into the store.
	result.Status = analysis.StatusCompleted
	got2, _ := store.Get(ctx, id)
	if got2.Status != analysis.StatusInProgress {
		t.Error("store should hold its own copy")
	}
}

func TestRunStoreGetMissing(t *testing.T) {
	store := NewRunStore()
	if _, err := store.Get(context.Background(), core.NewRunID()); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestRunStoreSaveOverwrites(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	id := core.NewRunID()

	first := &analysis.PipelineResult{ID: id, Status: analysis.StatusInProgress, CreatedAt: core.Now()}
	if err := store.Save(ctx, first); err != nil {
		t.Fatal(err)
	}
	second := &analysis.PipelineResult{ID: id, Status: analysis.StatusCompleted, CreatedAt: first.CreatedAt}
	if err := store.Save(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != analysis.StatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
}

func TestRunStoreListNewestFirst(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	older := &analysis.PipelineResult{
		ID:        core.NewRunID(),
		CreatedAt: core.NewTimestamp(time.Now().Add(-time.Hour)),
	}
	newer := &analysis.PipelineResult{
		ID:        core.NewRunID(),
		CreatedAt: core.Now(),
	}
	if err := store.Save(ctx, older); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, newer); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len = %d, want 2", len(runs))
	}
	if runs[0].ID != newer.ID {
		t.Error("newest run should come first")
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].ID != newer.ID {
		t.Error("limit should keep the newest run")
	}
}
