package reranker

import (
	"context"

	"github.com/chittiv1113/Oracle/internal/port"
)

// PassthroughReranker assigns every candidate a score of 1.0 and preserves
// fusion order, truncated to topN. Used when no cross-encoder is
// configured.
type PassthroughReranker struct{}

// NewPassthroughReranker creates a no-op reranker.
func NewPassthroughReranker() *PassthroughReranker {
	return &PassthroughReranker{}
}

func (p *PassthroughReranker) Rerank(ctx context.Context, query string, candidates []port.RerankCandidate, topN int) ([]port.RerankResult, error) {
	if topN > 0 && topN < len(candidates) {
		candidates = candidates[:topN]
	}
	results := make([]port.RerankResult, len(candidates))
	for i, c := range candidates {
		results[i] = port.RerankResult{ID: c.ID, Score: 1.0}
	}
	return results, nil
}
