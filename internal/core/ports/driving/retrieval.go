package driving

import (
	"context"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
)

// RetrievalService runs the two-stage search-then-rerank pipeline.
type RetrievalService interface {
	// Retrieve fetches a candidate pool for the query, reranks it, and
	// returns the top topN results in the reranker's order. countryHint
	// optionally scopes the query to a jurisdiction; empty means none.
	Retrieve(ctx context.Context, query string, topN int, mode domain.SearchMode, countryHint string) ([]domain.RankedResult, error)
}
