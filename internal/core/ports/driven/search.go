package driven

import (
	"context"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
)

// SearchQuery describes one first-stage search call.
type SearchQuery struct {
	// Text is the provider-ready query string, already carrying any
	// jurisdiction phrasing.
	Text string

	// Count is the candidate pool size to request.
	Count int

	// Freshness restricts results by age using the provider's filter
	// vocabulary (e.g. "oneDay"). Empty means no restriction.
	Freshness string
}

// SearchProvider fetches candidate documents from an external search API.
//
// Implementations own their key ring: a rate-limited call rotates to the
// next key and retries internally before the error surfaces here.
type SearchProvider interface {
	// Search returns the candidate pool for a query. An empty result is
	// not an error.
	Search(ctx context.Context, q SearchQuery) ([]domain.SearchCandidate, error)

	// Close releases resources.
	Close() error
}
