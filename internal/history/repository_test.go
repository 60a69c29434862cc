package history

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"), testLogger())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_MigratesIdempotently(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	db, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	db.Close()

	db2, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("second open failed: %v", err)
	}
	db2.Close()
}

func TestRepository_RecordAndGetRun(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db.Conn())
	ctx := context.Background()

	run := &Run{
		ID:             NewID(),
		Project:        "Demo",
		GroupName:      "Conform",
		Construct:      "Timeline 1",
		ShotCount:      7,
		ThumbnailCount: 5,
		Status:         RunStatusCompleted,
		StartedAt:      time.Now().Add(-time.Minute).UTC().Truncate(time.Second),
		FinishedAt:     time.Now().UTC().Truncate(time.Second),
	}

	if err := repo.RecordRun(ctx, run); err != nil {
		t.Fatalf("record run: %v", err)
	}

	got, err := repo.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got == nil {
		t.Fatal("run not found")
	}
	if got.Project != "Demo" || got.GroupName != "Conform" || got.ShotCount != 7 {
		t.Errorf("run mismatch: %+v", got)
	}
	if got.Status != RunStatusCompleted {
		t.Errorf("status = %q, want %q", got.Status, RunStatusCompleted)
	}
	if !got.StartedAt.Equal(run.StartedAt) {
		t.Errorf("started_at = %v, want %v", got.StartedAt, run.StartedAt)
	}
}

func TestRepository_GetRun_Missing(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db.Conn())

	got, err := repo.GetRun(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing run, got %+v", got)
	}
}

func TestRepository_ListRuns_OrderAndLimit(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db.Conn())
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		run := &Run{
			ID:         NewID(),
			Project:    "Demo",
			Status:     RunStatusFailed,
			Error:      "no groups found",
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + 30*time.Second),
		}
		if err := repo.RecordRun(ctx, run); err != nil {
			t.Fatalf("record run %d: %v", i, err)
		}
	}

	runs, err := repo.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs count = %d, want 2", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Errorf("runs not ordered newest first: %v then %v", runs[0].StartedAt, runs[1].StartedAt)
	}
}

func TestRepository_Thumbnails(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db.Conn())
	ctx := context.Background()

	run := &Run{
		ID:         NewID(),
		Project:    "Demo",
		Status:     RunStatusCompleted,
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
	}
	if err := repo.RecordRun(ctx, run); err != nil {
		t.Fatalf("record run: %v", err)
	}

	for i := 0; i < 2; i++ {
		thumb := &Thumbnail{
			ID:        NewID(),
			RunID:     run.ID,
			ShotUUID:  "shot-1",
			Path:      "/tmp/thumb.jpg",
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		if err := repo.AddThumbnail(ctx, thumb); err != nil {
			t.Fatalf("add thumbnail %d: %v", i, err)
		}
	}

	thumbs, err := repo.ListThumbnails(ctx, run.ID)
	if err != nil {
		t.Fatalf("list thumbnails: %v", err)
	}
	if len(thumbs) != 2 {
		t.Fatalf("thumbnails count = %d, want 2", len(thumbs))
	}
	if thumbs[0].ShotUUID != "shot-1" {
		t.Errorf("shot_uuid = %q, want %q", thumbs[0].ShotUUID, "shot-1")
	}
}
