package chunker

import (
	"strings"
	"testing"

	"github.com/chittiv1113/Oracle/internal/domain"
)

func TestLineChunkerBasic(t *testing.T) {
	chunker := NewLineChunker(4)

	content := `package main

import "fmt"

func main() {
    fmt.Println("Hello, World!")
}

func helper() {
    // some helper function
    return
}`

	chunks, err := chunker.Chunk("/test/file.go", []byte(content))
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}

	for _, chunk := range chunks {
		if chunk.FilePath != "/test/file.go" {
			t.Errorf("expected FilePath '/test/file.go', got '%s'", chunk.FilePath)
		}
		if chunk.StartLine < 1 {
			t.Errorf("invalid StartLine: %d", chunk.StartLine)
		}
		if chunk.EndLine < chunk.StartLine {
			t.Errorf("EndLine (%d) < StartLine (%d)", chunk.EndLine, chunk.StartLine)
		}
		if chunk.Content == "" {
			t.Error("chunk has empty content")
		}
		if chunk.SymbolType != domain.SymbolUnknown {
			t.Errorf("expected symbol_type unknown, got %s", chunk.SymbolType)
		}
	}
}

func TestLineChunkerCoversEveryLine(t *testing.T) {
	chunker := NewLineChunker(3)

	lines := []string{
		"Line one", "Line two", "Line three", "Line four",
		"Line five", "Line six", "Line seven", "Line eight",
	}
	content := strings.Join(lines, "\n")

	chunks, err := chunker.Chunk("/test/file.go", []byte(content))
	if err != nil {
		t.Fatal(err)
	}

	for _, line := range lines {
		found := false
		for _, chunk := range chunks {
			if strings.Contains(chunk.Content, line) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("line %q not found in any chunk", line)
		}
	}
}

func TestLineChunkerNonOverlapping(t *testing.T) {
	chunker := NewLineChunker(2)
	content := "Line1\nLine2\nLine3\nLine4\nLine5"

	chunks, err := chunker.Chunk("/test/file.go", []byte(content))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < len(chunks)-1; i++ {
		if chunks[i+1].StartLine != chunks[i].EndLine+1 {
			t.Errorf("expected contiguous windows: chunk %d ends at %d, chunk %d starts at %d",
				i, chunks[i].EndLine, i+1, chunks[i+1].StartLine)
		}
	}
}

func TestLineChunkerEmptyContent(t *testing.T) {
	chunker := NewLineChunker(50)

	chunks, err := chunker.Chunk("/test/empty.go", []byte(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}

func TestLineChunkerSingleLine(t *testing.T) {
	chunker := NewLineChunker(50)
	content := "Just a single line of code"

	chunks, err := chunker.Chunk("/test/single.go", []byte(content))
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 1 {
		t.Errorf("expected 1 chunk for single line, got %d", len(chunks))
	}
	if chunks[0].Content != content {
		t.Errorf("expected chunk content to match input")
	}
	if chunks[0].StartLine != 1 || chunks[0].EndLine != 1 {
		t.Errorf("expected lines 1-1, got %d-%d", chunks[0].StartLine, chunks[0].EndLine)
	}
}

func TestChunkHashUniqueness(t *testing.T) {
	chunker := NewLineChunker(2)
	content := "Line1\nLine2\nLine3\nLine4\nLine5\nLine6\nLine7\nLine8"

	chunks, err := chunker.Chunk("/test/file.go", []byte(content))
	if err != nil {
		t.Fatal(err)
	}

	hashes := make(map[string]bool)
	for _, chunk := range chunks {
		if hashes[chunk.ContentHash] {
			t.Errorf("duplicate content hash: %s", chunk.ContentHash)
		}
		hashes[chunk.ContentHash] = true
	}
}
