package chunker

import (
	"strings"
	"time"

	"github.com/chittiv1113/Oracle/internal/adapter/hasher"
	"github.com/chittiv1113/Oracle/internal/domain"
)

// LineChunker is the fallback the orchestrator uses for files whose
// extension has no registered grammar: a fixed line window, since no
// query/AST guidance is available for symbol extraction.
type LineChunker struct {
	windowLines int
}

// NewLineChunker creates a fallback chunker with the given window size in
// lines. windowLines <= 0 selects a default of 60.
func NewLineChunker(windowLines int) *LineChunker {
	if windowLines <= 0 {
		windowLines = 60
	}
	return &LineChunker{windowLines: windowLines}
}

// Chunk slices content into fixed-size, non-overlapping line windows. Each
// resulting Chunk has symbol_type unknown and no symbol_name, since no AST
// guidance exists for an unregistered language.
func (c *LineChunker) Chunk(filePath string, content []byte) ([]domain.Chunk, error) {
	text := string(content)
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")

	now := time.Now().Unix()
	var chunks []domain.Chunk
	for start := 0; start < len(lines); start += c.windowLines {
		end := start + c.windowLines
		if end > len(lines) {
			end = len(lines)
		}
		body := strings.Join(lines[start:end], "\n")
		chunks = append(chunks, domain.Chunk{
			FilePath:    filePath,
			SymbolType:  domain.SymbolUnknown,
			Content:     body,
			ContentHash: hasher.HashString(body),
			StartLine:   start + 1,
			EndLine:     end,
			Language:    "plaintext",
			IndexedAt:   now,
		})
	}
	return chunks, nil
}
