package reranker

import (
	"context"
	"errors"
	"testing"

	"github.com/chittiv1113/Oracle/internal/port"
)

type fakeTier struct {
	err     error
	results []port.RerankResult
	calls   int
}

func (f *fakeTier) Rerank(ctx context.Context, query string, candidates []port.RerankCandidate, topN int) ([]port.RerankResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func TestCascadeUsesFirstTierThatSucceeds(t *testing.T) {
	first := &fakeTier{results: []port.RerankResult{{ID: "a", Score: 0.9}}}
	second := &fakeTier{results: []port.RerankResult{{ID: "a", Score: 0.1}}}

	c := NewCascade(first, second)
	results, err := c.Rerank(context.Background(), "q", nil, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Score != 0.9 {
		t.Fatalf("expected first tier's result, got %v", results)
	}
	if second.calls != 0 {
		t.Errorf("expected second tier to be skipped, got %d calls", second.calls)
	}
}

func TestCascadeFallsThroughOnError(t *testing.T) {
	first := &fakeTier{err: errors.New("remote unavailable")}
	second := &fakeTier{err: errors.New("local unavailable")}
	third := &fakeTier{results: []port.RerankResult{{ID: "a", Score: 1.0}}}

	c := NewCascade(first, second, third)
	results, err := c.Rerank(context.Background(), "q", nil, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.calls != 1 || second.calls != 1 || third.calls != 1 {
		t.Errorf("expected every tier tried once, got %d/%d/%d", first.calls, second.calls, third.calls)
	}
	if len(results) != 1 || results[0].Score != 1.0 {
		t.Fatalf("expected third tier's result, got %v", results)
	}
}

func TestCascadeWithPassthroughNeverErrors(t *testing.T) {
	first := &fakeTier{err: errors.New("remote unavailable")}
	c := NewCascade(first, NewPassthroughReranker())

	candidates := []port.RerankCandidate{{ID: "a", Content: "x"}}
	results, err := c.Rerank(context.Background(), "q", candidates, 10)
	if err != nil {
		t.Fatalf("expected cascade bottoming at passthrough to never error, got %v", err)
	}
	if len(results) != 1 || results[0].Score != 1.0 {
		t.Fatalf("expected passthrough's score-1.0 result, got %v", results)
	}
}

func TestCascadeSkipsNilTiers(t *testing.T) {
	third := &fakeTier{results: []port.RerankResult{{ID: "a"}}}
	c := NewCascade(nil, nil, third)
	if len(c.tiers) != 1 {
		t.Fatalf("expected nil tiers dropped, got %d tiers", len(c.tiers))
	}
}
