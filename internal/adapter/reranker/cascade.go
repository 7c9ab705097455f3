package reranker

import (
	"context"
	"os"

	"github.com/chittiv1113/Oracle/config"
	"github.com/chittiv1113/Oracle/internal/port"
)

// Cascade tries each tier in order, advancing to the next on any error.
// As long as the chain ends in a tier that cannot fail, Rerank itself
// never returns an error — callers observe a degraded score, not a
// failure.
type Cascade struct {
	tiers []port.Reranker
}

// NewCascade builds a Cascade from tiers, dropping any nil entries so
// callers can pass the result of a fallible constructor directly.
func NewCascade(tiers ...port.Reranker) *Cascade {
	c := &Cascade{}
	for _, t := range tiers {
		if t != nil {
			c.tiers = append(c.tiers, t)
		}
	}
	return c
}

// Rerank runs candidates through the first tier that doesn't error.
func (c *Cascade) Rerank(ctx context.Context, query string, candidates []port.RerankCandidate, topN int) ([]port.RerankResult, error) {
	var lastErr error
	for _, tier := range c.tiers {
		results, err := tier.Rerank(ctx, query, candidates, topN)
		if err == nil {
			return results, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// NewConfiguredReranker builds the Remote -> Local -> Passthrough cascade
// cfg.Rerank describes. Remote is included only when its credential
// environment variable is actually set (construction would otherwise fail
// on every call); Local is included only when a model path is configured.
// Passthrough is always appended last so the chain can never surface an
// error up to a caller: it is the terminal tier that assigns every
// candidate score 1.0 once the earlier tiers have all declined or failed.
func NewConfiguredReranker(cfg *config.RerankConfig) port.Reranker {
	var tiers []port.Reranker

	if cfg.APIKeyEnv != "" && os.Getenv(cfg.APIKeyEnv) != "" {
		if remote, err := NewRemoteReranker(cfg.APIKeyEnv, cfg.Model); err == nil {
			tiers = append(tiers, remote)
		}
	}
	if cfg.ModelPath != "" {
		if local, err := NewLocalReranker(cfg.ModelPath, 30522, 512); err == nil {
			tiers = append(tiers, local)
		}
	}
	tiers = append(tiers, NewPassthroughReranker())

	return NewCascade(tiers...)
}
