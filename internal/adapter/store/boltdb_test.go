package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/chittiv1113/Oracle/internal/domain"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunks.db")
	st, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("NewBoltStore failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestInsertBatchAssignsIDs(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	chunks := []domain.Chunk{
		{FilePath: "a.go", ContentHash: "h1", Content: "one"},
		{FilePath: "a.go", ContentHash: "h2", Content: "two"},
	}

	inserted, err := st.InsertBatch(ctx, chunks)
	if err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}
	if len(inserted) != 2 {
		t.Fatalf("expected 2 inserted chunks, got %d", len(inserted))
	}
	if inserted[0].ID == 0 || inserted[1].ID == 0 {
		t.Error("expected nonzero assigned ids")
	}
	if inserted[0].ID == inserted[1].ID {
		t.Error("expected distinct ids")
	}
}

func TestGetByHash(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.InsertBatch(ctx, []domain.Chunk{
		{FilePath: "a.go", ContentHash: "deadbeef", Content: "body"},
	})
	if err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	chunk, found, err := st.GetByHash(ctx, "deadbeef")
	if err != nil {
		t.Fatalf("GetByHash failed: %v", err)
	}
	if !found {
		t.Fatal("expected chunk to be found by hash")
	}
	if chunk.Content != "body" {
		t.Errorf("expected content %q, got %q", "body", chunk.Content)
	}

	_, found, err = st.GetByHash(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("GetByHash failed: %v", err)
	}
	if found {
		t.Error("expected no chunk for unknown hash")
	}
}

func TestListByFileAndDeleteByFile(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.InsertBatch(ctx, []domain.Chunk{
		{FilePath: "a.go", ContentHash: "h1", Content: "one"},
		{FilePath: "a.go", ContentHash: "h2", Content: "two"},
		{FilePath: "b.go", ContentHash: "h3", Content: "three"},
	})
	if err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	chunks, err := st.ListByFile(ctx, "a.go")
	if err != nil {
		t.Fatalf("ListByFile failed: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks for a.go, got %d", len(chunks))
	}

	if err := st.DeleteByFile(ctx, "a.go"); err != nil {
		t.Fatalf("DeleteByFile failed: %v", err)
	}

	chunks, err = st.ListByFile(ctx, "a.go")
	if err != nil {
		t.Fatalf("ListByFile failed: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for a.go after delete, got %d", len(chunks))
	}

	all, err := st.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 remaining chunk, got %d", len(all))
	}
}

func TestListFilePathsSorted(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.InsertBatch(ctx, []domain.Chunk{
		{FilePath: "z.go", ContentHash: "h1", Content: "one"},
		{FilePath: "a.go", ContentHash: "h2", Content: "two"},
		{FilePath: "m.go", ContentHash: "h3", Content: "three"},
	})
	if err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	paths, err := st.ListFilePaths(ctx)
	if err != nil {
		t.Fatalf("ListFilePaths failed: %v", err)
	}
	want := []string{"a.go", "m.go", "z.go"}
	if len(paths) != len(want) {
		t.Fatalf("expected %d paths, got %d", len(want), len(paths))
	}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], p)
		}
	}
}

func TestGetMany(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	inserted, err := st.InsertBatch(ctx, []domain.Chunk{
		{FilePath: "a.go", ContentHash: "h1", Content: "one"},
		{FilePath: "b.go", ContentHash: "h2", Content: "two"},
	})
	if err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	got, err := st.GetMany(ctx, []int64{inserted[1].ID, inserted[0].ID})
	if err != nil {
		t.Fatalf("GetMany failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
}

func TestDeleteAll(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.InsertBatch(ctx, []domain.Chunk{
		{FilePath: "a.go", ContentHash: "h1", Content: "one"},
	})
	if err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	if err := st.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}

	all, err := st.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty store after DeleteAll, got %d chunks", len(all))
	}
}
