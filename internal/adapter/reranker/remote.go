// Package reranker implements the Reranker port's three tiers — Remote (a
// hosted cross-encoder HTTP API), Local (an ONNX-executed model), and
// Passthrough (a score-1.0 bypass) — plus Cascade, which chains them so a
// caller gets the best available tier without ever seeing a tier's error.
package reranker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/chittiv1113/Oracle/internal/oraclerr"
	"github.com/chittiv1113/Oracle/internal/port"
)

// RemoteReranker calls Cohere's /v1/rerank endpoint.
type RemoteReranker struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewRemoteReranker reads the API key from apiKeyEnv. model defaults to
// "rerank-english-v3.0" when empty.
func NewRemoteReranker(apiKeyEnv, model string) (*RemoteReranker, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, oraclerr.New(oraclerr.ModelUnavailable, "reranker.NewRemoteReranker",
			fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv))
	}
	if model == "" {
		model = "rerank-english-v3.0"
	}
	return &RemoteReranker{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.cohere.com/v1",
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

// Rerank scores candidates against query, returning the top topN.
func (r *RemoteReranker) Rerank(ctx context.Context, query string, candidates []port.RerankCandidate, topN int) ([]port.RerankResult, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	docs := make([]string, len(candidates))
	for i, c := range candidates {
		docs[i] = c.Content
	}

	reqBody := rerankRequest{Model: r.model, Query: query, Documents: docs, TopN: topN}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+"/rerank", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, oraclerr.New(oraclerr.TransientExternal, "reranker.Rerank", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, oraclerr.New(oraclerr.TransientExternal, "reranker.Rerank",
			fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body)))
	}

	var parsed rerankResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	results := make([]port.RerankResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.Index < 0 || r.Index >= len(candidates) {
			continue
		}
		results = append(results, port.RerankResult{ID: candidates[r.Index].ID, Score: r.RelevanceScore})
	}
	return results, nil
}
