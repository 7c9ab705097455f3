// Package lexical implements the Lexical Index: an in-memory BM25 ranking
// over the Lexical Document projection of every Chunk, using the Porter
// stemmer/tokenizer in internal/adapter/analyzer. Persistence uses
// encoding/gob.
package lexical

import (
	"bytes"
	"encoding/gob"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/chittiv1113/Oracle/internal/adapter/analyzer"
	"github.com/chittiv1113/Oracle/internal/domain"
	"github.com/chittiv1113/Oracle/internal/oraclerr"
	"github.com/chittiv1113/Oracle/internal/port"
)

type posting struct {
	IDStr string
	TF    int
}

type docRow struct {
	IDStr      string
	FilePath   string
	SymbolName string
	StartLine  int
	EndLine    int
	Length     int
}

// gobState is the serialized shape Save/Load round-trip exactly.
type gobState struct {
	Docs       map[string]docRow
	Postings   map[string][]posting
	TotalDocs  int
	AvgDocLen  float64
	K1, B      float64
	PathBoostW float64
}

// Index is the BM25 Lexical Index. Safe for concurrent Search calls; Build
// and Load replace the index wholesale under a write lock.
type Index struct {
	mu sync.RWMutex

	tokenizer *analyzer.Tokenizer

	docs      map[string]docRow
	postings  map[string][]posting
	totalDocs int
	avgDocLen float64

	k1              float64
	b               float64
	pathBoostWeight float64
}

// NewIndex creates an empty BM25 index with the given stemming toggle and
// scoring parameters.
func NewIndex(useStemming bool, k1, b, pathBoostWeight float64) *Index {
	return &Index{
		tokenizer:       analyzer.NewTokenizer(useStemming),
		docs:            make(map[string]docRow),
		postings:        make(map[string][]posting),
		k1:              k1,
		b:               b,
		pathBoostWeight: pathBoostWeight,
	}
}

// Build replaces the index's contents with a fresh projection of chunks.
func (idx *Index) Build(chunks []domain.Chunk) {
	docs := make(map[string]docRow, len(chunks))
	postings := make(map[string][]posting)

	var totalLen int
	for _, c := range chunks {
		ld := c.ToLexicalDocument()
		tokens := idx.tokenizer.Tokenize(ld.Content)

		docs[ld.IDStr] = docRow{
			IDStr:      ld.IDStr,
			FilePath:   ld.FilePath,
			SymbolName: ld.SymbolName,
			StartLine:  ld.StartLine,
			EndLine:    ld.EndLine,
			Length:     len(tokens),
		}
		totalLen += len(tokens)

		tf := make(map[string]int)
		for _, t := range tokens {
			tf[t]++
		}
		for term, count := range tf {
			postings[term] = append(postings[term], posting{IDStr: ld.IDStr, TF: count})
		}
	}

	avgDocLen := 0.0
	if len(docs) > 0 {
		avgDocLen = float64(totalLen) / float64(len(docs))
	}

	idx.mu.Lock()
	idx.docs = docs
	idx.postings = postings
	idx.totalDocs = len(docs)
	idx.avgDocLen = avgDocLen
	idx.mu.Unlock()
}

// Search returns the top-scoring Lexical Documents for query, BM25-ranked
// with a path-token-overlap boost.
func (idx *Index) Search(query string, limit int) []port.LexicalResult {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if limit <= 0 {
		return nil
	}

	queryTokens := idx.tokenizer.Tokenize(query)
	if len(queryTokens) == 0 || idx.totalDocs == 0 {
		return nil
	}

	queryTokenSet := make(map[string]struct{}, len(queryTokens))
	for _, t := range queryTokens {
		queryTokenSet[t] = struct{}{}
	}

	scores := make(map[string]float64)
	N := float64(idx.totalDocs)

	for _, term := range queryTokens {
		plist := idx.postings[term]
		if len(plist) == 0 {
			continue
		}
		n := float64(len(plist))
		idf := math.Log((N-n+0.5)/(n+0.5) + 1)

		for _, p := range plist {
			row, ok := idx.docs[p.IDStr]
			if !ok {
				continue
			}
			dl := float64(row.Length)
			tf := float64(p.TF)
			score := idf * (tf * (idx.k1 + 1)) / (tf + idx.k1*(1-idx.b+idx.b*dl/idx.avgDocLen))
			scores[p.IDStr] += score
		}
	}

	results := make([]port.LexicalResult, 0, len(scores))
	for idStr, score := range scores {
		row := idx.docs[idStr]
		finalScore := score
		if idx.pathBoostWeight > 0 {
			finalScore = score * (1 + pathBoost(row.FilePath, queryTokenSet)*idx.pathBoostWeight)
		}
		results = append(results, port.LexicalResult{
			IDStr:      idStr,
			FilePath:   row.FilePath,
			SymbolName: row.SymbolName,
			StartLine:  row.StartLine,
			EndLine:    row.EndLine,
			Score:      finalScore,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].IDStr < results[j].IDStr
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func pathBoost(path string, queryTokenSet map[string]struct{}) float64 {
	pathTokens := tokenizePath(path)
	if len(pathTokens) == 0 || len(queryTokenSet) == 0 {
		return 0
	}
	matches := 0
	for _, pt := range pathTokens {
		if _, ok := queryTokenSet[pt]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(queryTokenSet))
}

func tokenizePath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	var tokens []string
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		for _, sp := range strings.Split(part, ".") {
			for _, token := range strings.FieldsFunc(sp, func(r rune) bool {
				return r == '_' || r == '-'
			}) {
				token = strings.ToLower(token)
				if len(token) >= 2 {
					tokens = append(tokens, token)
				}
			}
		}
	}
	return tokens
}

// Save gob-encodes the index's state to path, writing atomically via a
// temp-file-then-rename.
func (idx *Index) Save(path string) error {
	idx.mu.RLock()
	state := gobState{
		Docs:       idx.docs,
		Postings:   idx.postings,
		TotalDocs:  idx.totalDocs,
		AvgDocLen:  idx.avgDocLen,
		K1:         idx.k1,
		B:          idx.b,
		PathBoostW: idx.pathBoostWeight,
	}
	idx.mu.RUnlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&state); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load decodes the gob-encoded state at path, replacing the index's
// contents.
func (idx *Index) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return oraclerr.New(oraclerr.NotFound, "lexical.Load", err)
	}

	var state gobState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return oraclerr.New(oraclerr.Corrupt, "lexical.Load", err)
	}

	idx.mu.Lock()
	idx.docs = state.Docs
	idx.postings = state.Postings
	idx.totalDocs = state.TotalDocs
	idx.avgDocLen = state.AvgDocLen
	if state.K1 != 0 {
		idx.k1 = state.K1
	}
	if state.B != 0 {
		idx.b = state.B
	}
	idx.pathBoostWeight = state.PathBoostW
	idx.mu.Unlock()
	return nil
}
