package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"gapsplice/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBeginFinishRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run := &history.Run{ID: "run-1", SourceDir: "/src", FillerDir: "/gap"}
	if err := store.Begin(ctx, run); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if run.Status != history.StatusRunning {
		t.Fatalf("expected running status, got %s", run.Status)
	}

	got, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Status != history.StatusRunning || got.SourceDir != "/src" {
		t.Fatalf("unexpected run after Begin: %#v", got)
	}

	run.Status = history.StatusSucceeded
	run.PrimaryCount = 3
	run.FillerCount = 2
	run.MatchedCount = 2
	run.OperationCount = 6
	run.ProgramLength = 300
	run.OutputPath = "/out/output.mp4"
	if err := store.Finish(ctx, run); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	got, err = store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != history.StatusSucceeded {
		t.Fatalf("expected succeeded, got %s", got.Status)
	}
	if got.PrimaryCount != 3 || got.MatchedCount != 2 || got.OperationCount != 6 || got.ProgramLength != 300 {
		t.Fatalf("unexpected counters: %#v", got)
	}
	if got.OutputPath != "/out/output.mp4" || got.ErrorMessage != "" {
		t.Fatalf("unexpected output fields: %#v", got)
	}
	if got.FinishedAt.IsZero() || got.Elapsed() < 0 {
		t.Fatalf("expected finished timestamp, got %#v", got)
	}
}

func TestFinishRequiresFinalStatus(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	run := &history.Run{ID: "run-2"}
	if err := store.Begin(ctx, run); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := store.Finish(ctx, run); err == nil {
		t.Fatal("expected error when finishing a run still marked running")
	}
	missing := &history.Run{ID: "missing", Status: history.StatusFailed}
	if err := store.Finish(ctx, missing); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	store := openStore(t)
	got, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil run, got %#v", got)
	}
}

func TestListOrdersNewestFirstAndPrunes(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		run := &history.Run{ID: id, StartedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := store.Begin(ctx, run); err != nil {
			t.Fatalf("Begin %s: %v", id, err)
		}
		run.Status = history.StatusFailed
		run.ErrorMessage = "boom"
		if err := store.Finish(ctx, run); err != nil {
			t.Fatalf("Finish %s: %v", id, err)
		}
	}

	// A run killed before Finish stays in the running state.
	if err := store.Begin(ctx, &history.Run{ID: "killed", StartedAt: base.Add(-time.Hour)}); err != nil {
		t.Fatalf("Begin killed: %v", err)
	}

	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "new" || runs[1].ID != "mid" {
		t.Fatalf("unexpected list order: %#v", runs)
	}

	removed, err := store.PruneBefore(ctx, base.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("PruneBefore: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 pruned runs including the abandoned one, got %d", removed)
	}
	runs, err = store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "new" {
		t.Fatalf("unexpected runs after prune: %#v", runs)
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Begin(context.Background(), &history.Run{ID: "keep"}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	store.Close()

	reopened, err := history.Open(path)
	if err != nil {
		if errors.Is(err, history.ErrSchemaMismatch) {
			t.Fatalf("unexpected schema mismatch: %v", err)
		}
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(context.Background(), "keep")
	if err != nil || got == nil {
		t.Fatalf("expected persisted run, got %#v err=%v", got, err)
	}
	if reopened.Path() != path {
		t.Fatalf("unexpected path %q", reopened.Path())
	}
}

func TestOpenRejectsNewerLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("stamp version: %v", err)
	}
	db.Close()

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
