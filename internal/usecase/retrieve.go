package usecase

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/chittiv1113/Oracle/internal/domain"
	"github.com/chittiv1113/Oracle/internal/fusion"
	"github.com/chittiv1113/Oracle/internal/port"
)

// RetrieveOptions tunes a single hybrid_search call.
type RetrieveOptions struct {
	BM25Limit   int
	VectorLimit int
	FusionLimit int
	RRFK        int
	Rerank      bool
	TopN        int
}

// DefaultRetrieveOptions returns the hybrid_search defaults.
func DefaultRetrieveOptions() RetrieveOptions {
	return RetrieveOptions{
		BM25Limit:   200,
		VectorLimit: 100,
		FusionLimit: 30,
		RRFK:        60,
		Rerank:      true,
		TopN:        10,
	}
}

// Retriever is the hybrid_search use case: it runs lexical search and query
// embedding concurrently, then vector search, fuses the two ranked lists,
// hydrates the fused ids into full Chunks, and optionally reranks the
// result.
type Retriever struct {
	store    port.ChunkStore
	lexical  port.LexicalIndex
	embedder port.Embedder
	vector   port.VectorIndex
	reranker port.Reranker
}

// NewRetriever assembles a Retriever from its ports.
func NewRetriever(store port.ChunkStore, lexical port.LexicalIndex, embedder port.Embedder, vector port.VectorIndex, reranker port.Reranker) *Retriever {
	return &Retriever{store: store, lexical: lexical, embedder: embedder, vector: vector, reranker: reranker}
}

// Retrieve runs hybrid_search: concurrent lexical search and query
// embedding, vector search, RRF fusion, hydration, and an optional
// reranking pass.
func (r *Retriever) Retrieve(ctx context.Context, query string, opts RetrieveOptions) ([]domain.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	var (
		lexResults []port.LexicalResult
		embedding  []float32
		embedErr   error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		lexResults = r.lexical.Search(query, opts.BM25Limit)
	}()
	go func() {
		defer wg.Done()
		embedding, embedErr = r.embedder.Embed(ctx, query)
	}()
	wg.Wait()

	if embedErr != nil {
		return nil, embedErr
	}

	vecResults, err := r.vector.Search(embedding, opts.VectorLimit)
	if err != nil {
		return nil, err
	}

	lexRanked := make([]fusion.Ranked, len(lexResults))
	for i, lr := range lexResults {
		lexRanked[i] = fusion.Ranked{ID: lr.IDStr}
	}
	vecRanked := make([]fusion.Ranked, len(vecResults))
	for i, vr := range vecResults {
		vecRanked[i] = fusion.Ranked{ID: strconv.FormatInt(vr.Key, 10)}
	}

	fused := fusion.Fuse([][]fusion.Ranked{lexRanked, vecRanked}, opts.RRFK)
	if opts.FusionLimit > 0 && len(fused) > opts.FusionLimit {
		fused = fused[:opts.FusionLimit]
	}

	lexByKey := make(map[string]port.LexicalResult, len(lexResults))
	for _, lr := range lexResults {
		lexByKey[lr.IDStr] = lr
	}

	orderedIDs := make([]int64, 0, len(fused))
	idOrder := make(map[int64]int, len(fused))
	scoreByID := make(map[int64]float64, len(fused))

	for _, f := range fused {
		var (
			chunkID int64
			resolved bool
		)
		if lr, ok := lexByKey[f.ID]; ok {
			id, found, err := r.resolveLexicalID(ctx, lr)
			if err != nil || !found {
				continue
			}
			chunkID, resolved = id, true
		} else if id, err := strconv.ParseInt(f.ID, 10, 64); err == nil {
			chunkID, resolved = id, true
		}
		if !resolved {
			continue
		}
		if _, seen := idOrder[chunkID]; seen {
			continue
		}
		idOrder[chunkID] = len(orderedIDs)
		orderedIDs = append(orderedIDs, chunkID)
		scoreByID[chunkID] = f.Score
	}

	chunks, err := r.store.GetMany(ctx, orderedIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.Chunk, len(chunks))
	for _, c := range chunks {
		byID[c.ID] = c
	}

	results := make([]domain.Result, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		c, ok := byID[id]
		if !ok {
			continue
		}
		results = append(results, domain.Result{
			ID:         c.ID,
			FilePath:   c.FilePath,
			SymbolName: c.SymbolName,
			Content:    c.Content,
			StartLine:  c.StartLine,
			EndLine:    c.EndLine,
			Score:      scoreByID[c.ID],
			SymbolType: c.SymbolType,
		})
	}

	if !opts.Rerank || r.reranker == nil {
		return results, nil
	}
	return r.rerank(ctx, query, results, opts.TopN)
}

// resolveLexicalID maps a Lexical Index hit back to its Chunk Store id by
// (file_path, start_line), since the lexical id_str has no numeric chunk
// id embedded in it.
func (r *Retriever) resolveLexicalID(ctx context.Context, lr port.LexicalResult) (int64, bool, error) {
	chunks, err := r.store.ListByFile(ctx, lr.FilePath)
	if err != nil {
		return 0, false, err
	}
	for _, c := range chunks {
		if c.StartLine == lr.StartLine {
			return c.ID, true, nil
		}
	}
	return 0, false, nil
}

func (r *Retriever) rerank(ctx context.Context, query string, results []domain.Result, topN int) ([]domain.Result, error) {
	if topN <= 0 {
		topN = len(results)
	}
	if len(results) <= topN {
		for i := range results {
			results[i].Score = 1.0
		}
		return results, nil
	}

	candidates := make([]port.RerankCandidate, len(results))
	byStrID := make(map[string]domain.Result, len(results))
	for i, res := range results {
		id := strconv.FormatInt(res.ID, 10)
		candidates[i] = port.RerankCandidate{ID: id, Content: res.Content}
		byStrID[id] = res
	}

	reranked, err := r.reranker.Rerank(ctx, query, candidates, topN)
	if err != nil {
		// The configured reranker is expected to be a cascade that
		// bottoms out at a tier which cannot fail; this branch only
		// guards a directly-injected single-tier reranker (as in
		// tests), and must honor the same score=1.0 bypass contract.
		out := results[:topN]
		for i := range out {
			out[i].Score = 1.0
		}
		return out, nil
	}

	out := make([]domain.Result, 0, len(reranked))
	for _, rr := range reranked {
		if res, ok := byStrID[rr.ID]; ok {
			res.Score = rr.Score
			out = append(out, res)
		}
	}
	return out, nil
}
