package workflow

import (
	"context"
	"errors"
	"testing"

	"platter/internal/services"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStartAndAdvanceRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run, err := store.StartRun(ctx, "/music/staging/album")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if run.ID == "" || run.Status != StatusRipped {
		t.Fatalf("unexpected new run %+v", run)
	}

	if err := store.UpdateStatus(ctx, run.ID, StatusIdentified, "mbid-abc"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != StatusIdentified || got.Detail != "mbid-abc" {
		t.Fatalf("unexpected run %+v", got)
	}
}

func TestUpdateUnknownRun(t *testing.T) {
	store := openTestStore(t)
	err := store.UpdateStatus(context.Background(), "no-such-run", StatusFailed, "")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecentRunsOrdering(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.StartRun(ctx, "/a")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.StartRun(ctx, "/b"); err != nil {
		t.Fatal(err)
	}
	if err := store.UpdateStatus(ctx, first.ID, StatusPersisted, ""); err != nil {
		t.Fatal(err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first.ID {
		t.Fatalf("expected most recently updated run first, got %s", runs[0].ID)
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []Status{StatusPersisted, StatusFailed, StatusSkipped} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusRipped, StatusIdentified, StatusTagged, StatusOrganized} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
