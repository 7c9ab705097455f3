package usecase

import (
	"context"
	"testing"

	"github.com/chittiv1113/Oracle/internal/domain"
	"github.com/chittiv1113/Oracle/internal/port"
)

type fakeStore struct {
	chunks map[int64]domain.Chunk
	byFile map[string][]domain.Chunk
}

func newFakeStore(chunks ...domain.Chunk) *fakeStore {
	fs := &fakeStore{chunks: make(map[int64]domain.Chunk), byFile: make(map[string][]domain.Chunk)}
	for _, c := range chunks {
		fs.chunks[c.ID] = c
		fs.byFile[c.FilePath] = append(fs.byFile[c.FilePath], c)
	}
	return fs
}

func (f *fakeStore) InsertBatch(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error) { return nil, nil }
func (f *fakeStore) DeleteAll(ctx context.Context) error                                            { return nil }
func (f *fakeStore) DeleteByFile(ctx context.Context, filePath string) error                        { return nil }
func (f *fakeStore) ListByFile(ctx context.Context, filePath string) ([]domain.Chunk, error) {
	return f.byFile[filePath], nil
}
func (f *fakeStore) GetByHash(ctx context.Context, hash string) (domain.Chunk, bool, error) {
	return domain.Chunk{}, false, nil
}
func (f *fakeStore) ListFilePaths(ctx context.Context) ([]string, error) { return nil, nil }
func (f *fakeStore) ListAll(ctx context.Context) ([]domain.Chunk, error) { return nil, nil }
func (f *fakeStore) GetMany(ctx context.Context, ids []int64) ([]domain.Chunk, error) {
	var out []domain.Chunk
	for _, id := range ids {
		if c, ok := f.chunks[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}
func (f *fakeStore) Close() error { return nil }

type fakeLexical struct {
	results []port.LexicalResult
}

func (f *fakeLexical) Build(chunks []domain.Chunk)                                  {}
func (f *fakeLexical) Search(query string, limit int) []port.LexicalResult          { return f.results }
func (f *fakeLexical) Save(path string) error                                       { return nil }
func (f *fakeLexical) Load(path string) error                                       { return nil }

type fakeVector struct {
	results []port.VectorResult
}

func (f *fakeVector) Add(key int64, vector []float32) error { return nil }
func (f *fakeVector) Search(vector []float32, k int) ([]port.VectorResult, error) {
	return f.results, nil
}
func (f *fakeVector) Save(path string) error { return nil }
func (f *fakeVector) Load(path string) error { return nil }
func (f *fakeVector) Close() error           { return nil }

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}
func (fakeEmbedder) Dimension() int { return 3 }

func TestRetrieveEmptyQuery(t *testing.T) {
	r := NewRetriever(newFakeStore(), &fakeLexical{}, fakeEmbedder{}, &fakeVector{}, nil)
	results, err := r.Retrieve(context.Background(), "   ", DefaultRetrieveOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results for empty query, got %v", results)
	}
}

func TestRetrieveFusesLexicalAndVectorHits(t *testing.T) {
	chunkA := domain.Chunk{ID: 1, FilePath: "a.go", Content: "alpha", StartLine: 5, EndLine: 8}
	chunkB := domain.Chunk{ID: 2, FilePath: "b.go", Content: "beta", StartLine: 1, EndLine: 2}
	st := newFakeStore(chunkA, chunkB)

	lex := &fakeLexical{results: []port.LexicalResult{
		{IDStr: chunkA.LexicalKey(), FilePath: chunkA.FilePath, StartLine: chunkA.StartLine},
	}}
	vec := &fakeVector{results: []port.VectorResult{
		{Key: chunkB.ID, Distance: 0.1},
	}}

	r := NewRetriever(st, lex, fakeEmbedder{}, vec, nil)
	results, err := r.Retrieve(context.Background(), "alpha beta", DefaultRetrieveOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 hydrated results, got %d", len(results))
	}

	seen := map[int64]bool{}
	for _, res := range results {
		seen[res.ID] = true
	}
	if !seen[chunkA.ID] || !seen[chunkB.ID] {
		t.Errorf("expected both chunk ids present, got %v", results)
	}
}

func TestRetrieveDeduplicatesRepeatedHits(t *testing.T) {
	chunk := domain.Chunk{ID: 1, FilePath: "a.go", Content: "alpha", StartLine: 5, EndLine: 8}
	st := newFakeStore(chunk)

	lex := &fakeLexical{results: []port.LexicalResult{
		{IDStr: chunk.LexicalKey(), FilePath: chunk.FilePath, StartLine: chunk.StartLine},
	}}
	vec := &fakeVector{results: []port.VectorResult{
		{Key: chunk.ID, Distance: 0.05},
	}}

	r := NewRetriever(st, lex, fakeEmbedder{}, vec, nil)
	results, err := r.Retrieve(context.Background(), "alpha", DefaultRetrieveOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected the lexical and vector hit on the same chunk to dedupe to 1 result, got %d", len(results))
	}
}

func TestRetrieveBypassesRerankWhenUnderTopN(t *testing.T) {
	chunk := domain.Chunk{ID: 1, FilePath: "a.go", Content: "alpha", StartLine: 5, EndLine: 8}
	st := newFakeStore(chunk)
	lex := &fakeLexical{results: []port.LexicalResult{
		{IDStr: chunk.LexicalKey(), FilePath: chunk.FilePath, StartLine: chunk.StartLine},
	}}

	r := NewRetriever(st, lex, fakeEmbedder{}, &fakeVector{}, &panickingReranker{t: t})
	opts := DefaultRetrieveOptions()
	opts.TopN = 10
	results, err := r.Retrieve(context.Background(), "alpha", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Score != 1.0 {
		t.Errorf("expected bypassed result to carry score 1.0, got %v", results[0].Score)
	}
}

type panickingReranker struct{ t *testing.T }

func (p *panickingReranker) Rerank(ctx context.Context, query string, candidates []port.RerankCandidate, topN int) ([]port.RerankResult, error) {
	p.t.Fatal("reranker should not be invoked when candidate count is already <= topN")
	return nil, nil
}
