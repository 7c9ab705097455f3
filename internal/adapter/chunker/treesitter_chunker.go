package chunker

import (
	"context"
	"log/slog"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/chittiv1113/Oracle/internal/adapter/hasher"
	"github.com/chittiv1113/Oracle/internal/domain"
)

// symbolCaptures maps a query's primary capture node name to the Chunk
// symbol_type it denotes.
var symbolCaptures = map[string]domain.SymbolType{
	"function": domain.SymbolFunction,
	"class":    domain.SymbolClass,
	"method":   domain.SymbolMethod,
}

// nameCaptures lists the identifier-capture names consulted, in priority
// order, to derive symbol_name.
var nameCaptures = []string{"func_name", "class_name", "method_name"}

// TreeSitterChunker parses source files with tree-sitter and extracts
// function/class/method chunks per a Grammar Registration's compiled query.
// Grounded on SloanGwaltney-synapse/internal/chunker/chunker.go's ASTChunker.
type TreeSitterChunker struct {
	registry *Registry
	logger   *slog.Logger
	queries  map[string]*sitter.Query
}

// NewTreeSitterChunker creates a chunker backed by reg.
func NewTreeSitterChunker(reg *Registry, logger *slog.Logger) *TreeSitterChunker {
	if logger == nil {
		logger = slog.Default()
	}
	return &TreeSitterChunker{registry: reg, logger: logger, queries: make(map[string]*sitter.Query)}
}

func (c *TreeSitterChunker) Registrations() []domain.GrammarRegistration {
	return c.registry.All()
}

// Chunk parses content per reg's grammar and emits one Chunk per matched
// function/class/method capture.
func (c *TreeSitterChunker) Chunk(filePath string, content []byte, reg domain.GrammarRegistration) ([]domain.Chunk, error) {
	if len(content) == 0 {
		return nil, nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(reg.Language)
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		c.logger.Warn("chunker: parse failed, emitting no chunks", "path", filePath, "error", err)
		return nil, nil
	}
	defer tree.Close()

	if tree.RootNode().HasError() {
		c.logger.Warn("chunker: partial parse errors, proceeding with best-effort extraction", "path", filePath)
	}

	query, err := c.compiledQuery(reg)
	if err != nil {
		c.logger.Warn("chunker: failed to compile query, emitting no chunks", "language", reg.LanguageName, "error", err)
		return nil, nil
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, tree.RootNode())

	now := time.Now().Unix()
	var chunks []domain.Chunk
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}

		var primaryNode *sitter.Node
		var primaryType domain.SymbolType
		names := make(map[string]string)

		for _, capture := range match.Captures {
			name := query.CaptureNameForId(capture.Index)
			if symType, isPrimary := symbolCaptures[name]; isPrimary {
				primaryNode = capture.Node
				primaryType = symType
				continue
			}
			for _, nc := range nameCaptures {
				if name == nc {
					names[nc] = capture.Node.Content(content)
				}
			}
		}

		if primaryNode == nil {
			continue
		}

		symbolName := ""
		for _, nc := range nameCaptures {
			if v, ok := names[nc]; ok && v != "" {
				symbolName = v
				break
			}
		}

		text := primaryNode.Content(content)
		chunks = append(chunks, domain.Chunk{
			FilePath:    filePath,
			SymbolName:  symbolName,
			SymbolType:  primaryType,
			Content:     text,
			ContentHash: hasher.HashString(text),
			StartLine:   int(primaryNode.StartPoint().Row) + 1,
			EndLine:     int(primaryNode.EndPoint().Row) + 1,
			Language:    reg.LanguageName,
			IndexedAt:   now,
		})
	}

	return chunks, nil
}

func (c *TreeSitterChunker) compiledQuery(reg domain.GrammarRegistration) (*sitter.Query, error) {
	if q, ok := c.queries[reg.LanguageName]; ok {
		return q, nil
	}
	q, err := sitter.NewQuery([]byte(reg.Query), reg.Language)
	if err != nil {
		return nil, err
	}
	c.queries[reg.LanguageName] = q
	return q, nil
}
