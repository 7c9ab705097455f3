package reranker

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/chittiv1113/Oracle/internal/oraclerr"
	"github.com/chittiv1113/Oracle/internal/port"
)

// LocalReranker runs a cross-encoder ONNX model in-process via
// onnxruntime_go.
type LocalReranker struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
	vocab   int
	maxLen  int
}

var ortInit sync.Once
var ortInitErr error

// NewLocalReranker loads the ONNX model at modelPath. vocabSize and maxLen
// describe the tokenizer this build was exported with.
func NewLocalReranker(modelPath string, vocabSize, maxLen int) (*LocalReranker, error) {
	ortInit.Do(func() {
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return nil, oraclerr.New(oraclerr.ModelUnavailable, "reranker.NewLocalReranker", ortInitErr)
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"logits"},
		nil)
	if err != nil {
		return nil, oraclerr.New(oraclerr.ModelUnavailable, "reranker.NewLocalReranker", err)
	}

	if maxLen <= 0 {
		maxLen = 512
	}
	return &LocalReranker{session: session, vocab: vocabSize, maxLen: maxLen}, nil
}

// Rerank scores each candidate by running query+content through the ONNX
// cross-encoder, one pair per inference call.
func (l *LocalReranker) Rerank(ctx context.Context, query string, candidates []port.RerankCandidate, topN int) ([]port.RerankResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	results := make([]port.RerankResult, 0, len(candidates))
	for _, c := range candidates {
		score, err := l.scorePair(query, c.Content)
		if err != nil {
			return nil, err
		}
		results = append(results, port.RerankResult{ID: c.ID, Score: score})
	}

	sortResultsDescending(results)
	if topN > 0 && topN < len(results) {
		results = results[:topN]
	}
	return results, nil
}

func (l *LocalReranker) scorePair(query, content string) (float64, error) {
	inputIDs, attnMask := l.encode(query, content)

	idsTensor, err := ort.NewTensor(ort.NewShape(1, int64(len(inputIDs))), inputIDs)
	if err != nil {
		return 0, fmt.Errorf("build input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()

	maskTensor, err := ort.NewTensor(ort.NewShape(1, int64(len(attnMask))), attnMask)
	if err != nil {
		return 0, fmt.Errorf("build attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := l.session.Run([]ort.Value{idsTensor, maskTensor}, outputs); err != nil {
		return 0, oraclerr.New(oraclerr.TransientExternal, "reranker.scorePair", err)
	}
	defer outputs[0].Destroy()

	logits, ok := outputs[0].(*ort.Tensor[float32])
	if !ok || len(logits.GetData()) == 0 {
		return 0, fmt.Errorf("unexpected output tensor shape")
	}
	return sigmoid(float64(logits.GetData()[0])), nil
}

// encode hashes the whitespace tokens of "<query> [SEP] <content>" into
// [0, vocab) buckets, truncated to maxLen. A real deployment swaps this for
// the tokenizer the model was exported with.
func (l *LocalReranker) encode(query, content string) ([]int64, []int64) {
	tokens := append(strings.Fields(query), "[SEP]")
	tokens = append(tokens, strings.Fields(content)...)
	if len(tokens) > l.maxLen {
		tokens = tokens[:l.maxLen]
	}

	ids := make([]int64, l.maxLen)
	mask := make([]int64, l.maxLen)
	for i, tok := range tokens {
		ids[i] = int64(hashToken(tok) % uint32(l.vocab))
		mask[i] = 1
	}
	return ids, mask
}

func hashToken(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func sortResultsDescending(results []port.RerankResult) {
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j].Score > results[j-1].Score; j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
}
