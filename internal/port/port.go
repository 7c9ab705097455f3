// Package port declares the hexagonal boundaries between the orchestrator
// use cases and every adapter: the Walker, Chunker, Chunk Store, Lexical and
// Vector indices, Embedder, and Reranker. Concrete adapters live under
// internal/adapter.
package port

import (
	"context"

	"github.com/chittiv1113/Oracle/internal/domain"
)

// Walker enumerates candidate files under root, honoring ignore rules and
// size/binary filters.
type Walker interface {
	Discover(ctx context.Context, root string) ([]string, error)
}

// Chunker extracts Chunks from a single file's content via one registered
// grammar.
type Chunker interface {
	Chunk(filePath string, content []byte, reg domain.GrammarRegistration) ([]domain.Chunk, error)
	// Registrations lists the grammars this Chunker knows, used by the
	// orchestrator to build its extension-to-grammar table.
	Registrations() []domain.GrammarRegistration
}

// FallbackChunker is invoked by the orchestrator when no grammar claims a
// file's extension but the file should still be indexed at line granularity.
type FallbackChunker interface {
	Chunk(filePath string, content []byte) ([]domain.Chunk, error)
}

// ChunkStore is the durable, transactional row store owning Chunk rows and
// their ids.
type ChunkStore interface {
	InsertBatch(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error)
	DeleteAll(ctx context.Context) error
	DeleteByFile(ctx context.Context, filePath string) error
	ListByFile(ctx context.Context, filePath string) ([]domain.Chunk, error)
	GetByHash(ctx context.Context, hash string) (domain.Chunk, bool, error)
	ListFilePaths(ctx context.Context) ([]string, error)
	ListAll(ctx context.Context) ([]domain.Chunk, error)
	GetMany(ctx context.Context, ids []int64) ([]domain.Chunk, error)
	Close() error
}

// LexicalIndex is the BM25 index over the Lexical Document projection.
type LexicalIndex interface {
	Build(chunks []domain.Chunk)
	Search(query string, limit int) []LexicalResult
	Save(path string) error
	Load(path string) error
}

// LexicalResult is a single Lexical Index hit.
type LexicalResult struct {
	IDStr      string
	FilePath   string
	SymbolName string
	StartLine  int
	EndLine    int
	Score      float64
}

// Embedder produces a fixed-dimension, L2-normalized dense vector for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// VectorIndex is the HNSW graph over chunk embeddings keyed by chunk id.
type VectorIndex interface {
	Add(key int64, vector []float32) error
	Search(vector []float32, k int) ([]VectorResult, error)
	Save(path string) error
	Load(path string) error
	Close() error
}

// VectorResult is a single Vector Index hit: a key and its cosine distance.
type VectorResult struct {
	Key      int64
	Distance float64
}

// RerankCandidate is a single (id, content) pair offered to the Reranker.
type RerankCandidate struct {
	ID      string
	Content string
}

// RerankResult pairs a candidate id with its relevance score.
type RerankResult struct {
	ID    string
	Score float64
}

// Reranker scores (query, candidate) pairs. Concrete adapters implement
// Remote, Local, and Passthrough variants.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []RerankCandidate, topN int) ([]RerankResult, error)
}
