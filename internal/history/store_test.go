package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/akyairhashvil/taskwatch/internal/tasks"
)

func setupTestStore(t *testing.T, ctx context.Context) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Logf("store close failed: %v", err)
		}
	})
	return s
}

func bulkResult(id string, started time.Time, errs ...error) tasks.BulkResult {
	res := tasks.BulkResult{
		ID:         id,
		Action:     "clear_complete",
		TaskType:   "copy",
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
	}
	for i, err := range errs {
		res.Outcomes = append(res.Outcomes, tasks.Outcome{TaskID: int64(i + 1), Name: "task", Err: err})
	}
	return res
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, ctx)
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	again, err := Open(ctx, s.Path())
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	_ = again.Close()
}

func TestRecordAndReadBack(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, ctx)
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	res := bulkResult("run-1", started, nil, errors.New("delete refused"), nil)
	if err := s.RecordBulk(ctx, res); err != nil {
		t.Fatalf("RecordBulk failed: %v", err)
	}

	runs, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.ID != "run-1" || r.Action != "clear_complete" || r.TaskType != "copy" {
		t.Fatalf("unexpected run: %+v", r)
	}
	if r.Total != 3 || r.Failed != 1 || r.OK() {
		t.Fatalf("unexpected counts: total=%d failed=%d", r.Total, r.Failed)
	}
	if !r.StartedAt.Equal(started) {
		t.Fatalf("started_at = %v, want %v", r.StartedAt, started)
	}

	items, err := s.Outcomes(ctx, "run-1")
	if err != nil {
		t.Fatalf("Outcomes failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(items))
	}
	if items[0].Error != nil || items[2].Error != nil {
		t.Fatalf("successful items should have no error")
	}
	if items[1].Error == nil || *items[1].Error != "delete refused" {
		t.Fatalf("item 2 error = %v", items[1].Error)
	}
	if items[1].TaskID != 2 {
		t.Fatalf("outcomes out of order: %+v", items)
	}
}

func TestRecentNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, ctx)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := s.RecordBulk(ctx, bulkResult(id, base.Add(time.Duration(i)*time.Hour), nil)); err != nil {
			t.Fatalf("RecordBulk %s failed: %v", id, err)
		}
	}
	runs, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Fatalf("unexpected order: %+v", runs)
	}
	all, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent(0) failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all 3 runs, got %d", len(all))
	}
}

func TestRecordDuplicateRunFails(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, ctx)
	res := bulkResult("dup", time.Now(), nil)
	if err := s.RecordBulk(ctx, res); err != nil {
		t.Fatalf("first RecordBulk failed: %v", err)
	}
	err := s.RecordBulk(ctx, res)
	var opErr *OpError
	if !errors.As(err, &opErr) || opErr.RunID != "dup" {
		t.Fatalf("expected OpError for dup, got %v", err)
	}
	items, err := s.Outcomes(ctx, "dup")
	if err != nil {
		t.Fatalf("Outcomes failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("rolled back insert left %d outcomes", len(items))
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, ctx)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		if err := s.RecordBulk(ctx, bulkResult(id, base.Add(time.Duration(i)*time.Minute), nil, nil)); err != nil {
			t.Fatalf("RecordBulk failed: %v", err)
		}
	}
	n, err := s.Prune(ctx, 1)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("pruned %d runs, want 2", n)
	}
	items, err := s.Outcomes(ctx, "old")
	if err != nil {
		t.Fatalf("Outcomes failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("outcomes of pruned run survived: %d", len(items))
	}
}

func TestStoreSatisfiesRecorder(t *testing.T) {
	var _ tasks.Recorder = (*Store)(nil)
}
