package reranker

import (
	"context"
	"testing"

	"github.com/chittiv1113/Oracle/internal/port"
)

func TestPassthroughRerankAssignsConstantScore(t *testing.T) {
	r := NewPassthroughReranker()
	candidates := []port.RerankCandidate{
		{ID: "a", Content: "alpha"},
		{ID: "b", Content: "beta"},
	}

	results, err := r.Rerank(context.Background(), "query", candidates, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		if res.Score != 1.0 {
			t.Errorf("expected constant score 1.0, got %v for id %s", res.Score, res.ID)
		}
	}
	if results[0].ID != "a" || results[1].ID != "b" {
		t.Errorf("expected fusion order preserved, got %v", results)
	}
}

func TestPassthroughRerankTruncatesToTopN(t *testing.T) {
	r := NewPassthroughReranker()
	candidates := []port.RerankCandidate{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}

	results, err := r.Rerank(context.Background(), "query", candidates, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected truncation to topN=2, got %d", len(results))
	}
}

func TestPassthroughRerankZeroTopNKeepsAll(t *testing.T) {
	r := NewPassthroughReranker()
	candidates := []port.RerankCandidate{{ID: "a"}, {ID: "b"}}

	results, err := r.Rerank(context.Background(), "query", candidates, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected topN<=0 to keep all candidates, got %d", len(results))
	}
}
