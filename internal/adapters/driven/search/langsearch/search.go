// Package langsearch provides a search provider adapter using the
// LangSearch web search API.
package langsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexdraft-cli/internal/retry"
)

// Ensure SearchProvider implements the interface.
var _ driven.SearchProvider = (*SearchProvider)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.langsearch.com/v1"
	DefaultTimeout = 30 * time.Second

	// Proactive throttle so bursts of retrieval calls do not trip the
	// provider's limit in the first place.
	requestsPerSecond = 2
	requestBurst      = 5
)

// Config holds configuration for the LangSearch provider.
type Config struct {
	// Keys are the API keys, rotated on rate limiting (at least one required).
	Keys []string

	// BaseURL is the API base URL (default: https://api.langsearch.com/v1).
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// SearchProvider fetches web and news candidates from LangSearch.
type SearchProvider struct {
	client  *http.Client
	baseURL string
	ring    *domain.KeyRing
	policy  retry.Policy
	limiter *rate.Limiter
}

// webSearchRequest is the LangSearch /web-search request format.
type webSearchRequest struct {
	Query     string `json:"query"`
	Count     int    `json:"count"`
	Summary   bool   `json:"summary"`
	Freshness string `json:"freshness,omitempty"`
}

// webSearchResponse is the LangSearch /web-search response format.
type webSearchResponse struct {
	Data struct {
		WebPages struct {
			Value []struct {
				ID            string `json:"id"`
				Name          string `json:"name"`
				Summary       string `json:"summary"`
				Snippet       string `json:"snippet"`
				URL           string `json:"url"`
				DatePublished string `json:"datePublished"`
			} `json:"value"`
		} `json:"webPages"`
	} `json:"data"`
}

// New creates a new LangSearch provider.
func New(cfg Config) (*SearchProvider, error) {
	ring := domain.NewKeyRing(cfg.Keys)
	if ring.Size() == 0 {
		return nil, fmt.Errorf("langsearch: %w", domain.ErrNoKeysConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &SearchProvider{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		ring:    ring,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}, nil
}

// SetRetryPolicy overrides the rate-limit retry policy. Useful for testing.
func (p *SearchProvider) SetRetryPolicy(policy retry.Policy) {
	p.policy = policy
}

// Search returns the candidate pool for a query. A rate-limited call
// rotates the key ring and retries before surfacing an error.
func (p *SearchProvider) Search(ctx context.Context, q driven.SearchQuery) ([]domain.SearchCandidate, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("langsearch: %w", err)
	}

	reqBody := webSearchRequest{
		Query:     q.Text,
		Count:     q.Count,
		Summary:   true,
		Freshness: q.Freshness,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("langsearch: marshal request: %w", err)
	}

	var candidates []domain.SearchCandidate
	err = p.policy.Do(ctx, p.ring, "langsearch", func(key string) error {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, p.baseURL+"/web-search", bytes.NewReader(jsonBody),
		)
		if err != nil {
			return fmt.Errorf("langsearch: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+key)

		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("langsearch: send request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("langsearch: %w", domain.ErrRateLimited)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("langsearch: read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("langsearch: %w: status %d: %s", domain.ErrProvider, resp.StatusCode, string(body))
		}

		var searchResp webSearchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return fmt.Errorf("langsearch: %w: decode response: %v", domain.ErrProvider, err)
		}

		candidates = toCandidates(searchResp, q.Freshness != "")
		return nil
	})
	if err != nil {
		return nil, err
	}

	return candidates, nil
}

// toCandidates converts the wire response into domain candidates. The
// summary field is preferred over the snippet when the provider sends both.
func toCandidates(resp webSearchResponse, news bool) []domain.SearchCandidate {
	pages := resp.Data.WebPages.Value
	candidates := make([]domain.SearchCandidate, 0, len(pages))

	kind := domain.CandidateWebpage
	if news {
		kind = domain.CandidateNews
	}

	for _, page := range pages {
		content := page.Summary
		if content == "" {
			content = page.Snippet
		}

		// Publication dates are best effort: a missing or malformed
		// date leaves the zero value.
		published, _ := time.Parse(time.RFC3339, page.DatePublished)

		candidates = append(candidates, domain.SearchCandidate{
			ID:          page.ID,
			Title:       page.Name,
			Content:     content,
			CitationURL: page.URL,
			Kind:        kind,
			PublishedAt: published,
		})
	}

	return candidates
}

// Close releases resources.
func (p *SearchProvider) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
