// Package domain holds the data model shared by every component of the
// indexing and retrieval engine: the Chunk row, its lexical and vector
// projections, and the aggregate stats structures the orchestrator reports.
package domain

import "strconv"

// SymbolType classifies the AST node a Chunk was captured from.
type SymbolType string

const (
	SymbolFunction SymbolType = "function"
	SymbolClass    SymbolType = "class"
	SymbolMethod   SymbolType = "method"
	SymbolUnknown  SymbolType = "unknown"
)

// Chunk is the fundamental retrieval unit: a syntactically-bounded slice of
// source extracted from a file's AST.
type Chunk struct {
	ID          int64      `json:"id"`
	FilePath    string     `json:"file_path"`
	SymbolName  string     `json:"symbol_name,omitempty"`
	SymbolType  SymbolType `json:"symbol_type"`
	Content     string     `json:"content"`
	ContentHash string     `json:"content_hash"`
	StartLine   int        `json:"start_line"`
	EndLine     int        `json:"end_line"`
	Language    string     `json:"language"`
	IndexedAt   int64      `json:"indexed_at"`
}

// LexicalKey is the Lexical Document's natural key, fixed to this format for
// compatibility with the Fusion stage's heterogeneous-id handling.
func (c Chunk) LexicalKey() string {
	return c.FilePath + ":" + strconv.Itoa(c.StartLine)
}

// LexicalDocument is the Lexical Index's projection of a Chunk. One-to-one
// with Chunk.
type LexicalDocument struct {
	IDStr      string
	FilePath   string
	SymbolName string
	Content    string
	StartLine  int
	EndLine    int
}

// ToLexicalDocument projects a Chunk into its Lexical Document form.
func (c Chunk) ToLexicalDocument() LexicalDocument {
	return LexicalDocument{
		IDStr:      c.LexicalKey(),
		FilePath:   c.FilePath,
		SymbolName: c.SymbolName,
		Content:    c.Content,
		StartLine:  c.StartLine,
		EndLine:    c.EndLine,
	}
}

// Stats summarizes a single full_index or update_index run.
type Stats struct {
	FilesDiscovered int   `json:"files_discovered"`
	FilesProcessed  int   `json:"files_processed"`
	FilesFailed     int   `json:"files_failed"`
	ChunksCreated   int   `json:"chunks_created"`
	DurationMS      int64 `json:"duration_ms"`
}

// Result is a hydrated, scored retrieval result, the shape returned by
// hybrid_search.
type Result struct {
	ID         int64      `json:"id"`
	FilePath   string     `json:"file_path"`
	SymbolName string     `json:"symbol_name,omitempty"`
	Content    string     `json:"content"`
	StartLine  int        `json:"start_line"`
	EndLine    int        `json:"end_line"`
	Score      float64    `json:"score"`
	SymbolType SymbolType `json:"symbol_type,omitempty"`
}
