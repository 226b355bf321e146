// Package jina provides a reranker adapter using the Jina AI rerank API.
package jina

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexdraft-cli/internal/retry"
)

// Ensure Reranker implements the interface.
var _ driven.Reranker = (*Reranker)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.jina.ai/v1"
	DefaultModel   = "jina-reranker-v2-base-multilingual"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Jina reranker.
type Config struct {
	// Keys are the API keys, rotated on rate limiting (at least one required).
	Keys []string

	// BaseURL is the API base URL (default: https://api.jina.ai/v1).
	BaseURL string

	// Model is the rerank model (default: jina-reranker-v2-base-multilingual).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Reranker scores candidate documents against a query via Jina AI.
type Reranker struct {
	client  *http.Client
	baseURL string
	model   string
	ring    *domain.KeyRing
	policy  retry.Policy
}

// rerankRequest is the Jina /rerank request format.
type rerankRequest struct {
	Model           string   `json:"model"`
	Query           string   `json:"query"`
	Documents       []string `json:"documents"`
	TopN            int      `json:"top_n"`
	ReturnDocuments bool     `json:"return_documents"`
}

// rerankResponse is the Jina /rerank response format.
type rerankResponse struct {
	Results []struct {
		Index    int `json:"index"`
		Document struct {
			Text string `json:"text"`
		} `json:"document"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

// New creates a new Jina reranker.
func New(cfg Config) (*Reranker, error) {
	ring := domain.NewKeyRing(cfg.Keys)
	if ring.Size() == 0 {
		return nil, fmt.Errorf("jina: %w", domain.ErrNoKeysConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Reranker{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		ring:    ring,
	}, nil
}

// SetRetryPolicy overrides the rate-limit retry policy. Useful for testing.
func (r *Reranker) SetRetryPolicy(policy retry.Policy) {
	r.policy = policy
}

// Rerank scores documents against the query and returns up to topN results
// ordered by descending relevance. The echoed index of each result refers to
// the position in the submitted documents slice.
func (r *Reranker) Rerank(ctx context.Context, query string, documents []string, topN int) ([]driven.RankedDocument, error) {
	reqBody := rerankRequest{
		Model:           r.model,
		Query:           query,
		Documents:       documents,
		TopN:            topN,
		ReturnDocuments: true,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("jina: marshal request: %w", err)
	}

	var ranked []driven.RankedDocument
	err = r.policy.Do(ctx, r.ring, "jina", func(key string) error {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, r.baseURL+"/rerank", bytes.NewReader(jsonBody),
		)
		if err != nil {
			return fmt.Errorf("jina: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+key)

		resp, err := r.client.Do(req)
		if err != nil {
			return fmt.Errorf("jina: send request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("jina: %w", domain.ErrRateLimited)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("jina: read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("jina: %w: status %d: %s", domain.ErrProvider, resp.StatusCode, string(body))
		}

		var rerankResp rerankResponse
		if err := json.Unmarshal(body, &rerankResp); err != nil {
			return fmt.Errorf("jina: %w: decode response: %v", domain.ErrProvider, err)
		}

		ranked = make([]driven.RankedDocument, 0, len(rerankResp.Results))
		for _, res := range rerankResp.Results {
			ranked = append(ranked, driven.RankedDocument{
				Index:          res.Index,
				Text:           res.Document.Text,
				RelevanceScore: res.RelevanceScore,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ranked, nil
}

// Close releases resources.
func (r *Reranker) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
