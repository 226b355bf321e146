package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexdraft-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// Candidate pool sizes requested from the search provider. Both exceed the
// usual topN so the reranker has material to work with.
const (
	// WebCandidatePool is the pool size for document/web search.
	WebCandidatePool = 10

	// NewsCandidatePool is the pool size for news search.
	NewsCandidatePool = 5

	// NewsFreshness restricts news results to the last 24 hours, in the
	// search provider's filter vocabulary.
	NewsFreshness = "oneDay"
)

// RetrievalService runs the two-stage search-then-rerank pipeline.
type RetrievalService struct {
	search   driven.SearchProvider
	reranker driven.Reranker
}

// NewRetrievalService creates a retrieval service over the given providers.
func NewRetrievalService(search driven.SearchProvider, reranker driven.Reranker) *RetrievalService {
	return &RetrievalService{
		search:   search,
		reranker: reranker,
	}
}

// Retrieve fetches a candidate pool for the query, reranks it, and returns
// the top topN results in the reranker's order. A provider failure fails
// the whole retrieval: there is no degraded fallback, callers abort the
// turn and surface the error.
func (s *RetrievalService) Retrieve(
	ctx context.Context, query string, topN int, mode domain.SearchMode, countryHint string,
) ([]domain.RankedResult, error) {
	logger.Section("Retrieval")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("retrieve: %w: empty query", domain.ErrInvalidInput)
	}
	if topN <= 0 {
		return nil, fmt.Errorf("retrieve: %w: topN must be positive", domain.ErrInvalidInput)
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("retrieve: %w: unknown mode %q", domain.ErrInvalidInput, mode)
	}
	if s.search == nil {
		return nil, fmt.Errorf("retrieve: %w", domain.ErrSearchUnavailable)
	}
	if s.reranker == nil {
		return nil, fmt.Errorf("retrieve: %w", domain.ErrRerankUnavailable)
	}

	req := driven.SearchQuery{
		Text:  buildProviderQuery(query, countryHint),
		Count: WebCandidatePool,
	}
	if mode == domain.SearchModeNews {
		req.Count = NewsCandidatePool
		req.Freshness = NewsFreshness
	}
	logger.Debug("Search: mode=%s, query=%q, count=%d", mode, req.Text, req.Count)

	candidates, err := s.search.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("retrieve: search: %w", err)
	}
	logger.Debug("Search: %d candidates", len(candidates))

	// Nothing to rank: skip the rerank call entirely.
	if len(candidates) == 0 {
		logger.Info("Retrieval: no candidates, skipping rerank")
		return []domain.RankedResult{}, nil
	}

	documents := make([]string, len(candidates))
	for i := range candidates {
		documents[i] = candidates[i].Content
	}

	ranked, err := s.reranker.Rerank(ctx, query, documents, topN)
	if err != nil {
		return nil, fmt.Errorf("retrieve: rerank: %w", err)
	}
	logger.Debug("Rerank: %d results", len(ranked))

	// Re-associate by the index the reranker echoes back. Out-of-range
	// indices are dropped rather than failing the retrieval.
	results := make([]domain.RankedResult, 0, len(ranked))
	for _, doc := range ranked {
		if doc.Index < 0 || doc.Index >= len(candidates) {
			logger.Warn("Rerank: dropping result with out-of-range index %d", doc.Index)
			continue
		}
		results = append(results, domain.RankedResult{
			Candidate:      candidates[doc.Index],
			RelevanceScore: doc.RelevanceScore,
		})
	}

	logger.Info("Retrieval: %d results", len(results))
	return results, nil
}

// buildProviderQuery phrases the query for the search provider, scoping it
// to a jurisdiction when a country hint is present. India gets a dedicated
// phrasing tuned for case-law recall.
func buildProviderQuery(query, countryHint string) string {
	countryHint = strings.TrimSpace(countryHint)
	switch {
	case countryHint == "":
		return query
	case countryHint == "India":
		return "Indian legal cases and statutes about " + query
	default:
		return query + " in " + countryHint + " law"
	}
}
