package driven

import "context"

// RankedDocument is one reranker output item. Index refers back to the
// position of the document in the submitted list, which is how results are
// re-associated with their originating search candidates.
type RankedDocument struct {
	// Index is the zero-based position in the submitted document list.
	Index int

	// Text is the document text as echoed back by the provider.
	Text string

	// RelevanceScore is the provider's relevance score for the query.
	RelevanceScore float64
}

// Reranker scores a candidate document list against a query and returns
// the top entries in descending relevance order.
type Reranker interface {
	// Rerank submits the query and candidate texts, requesting the top
	// topN documents. The returned order is the provider's ranking.
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]RankedDocument, error)

	// Close releases resources.
	Close() error
}
