package domain

import "time"

// SearchMode selects which corpus the retrieval pipeline queries.
type SearchMode string

// Available search modes.
const (
	// SearchModeWeb queries the general web corpus for cases and statutes.
	SearchModeWeb SearchMode = "web"

	// SearchModeNews queries recent news with a freshness filter.
	SearchModeNews SearchMode = "news"
)

// IsValid returns true if the search mode is recognised.
func (m SearchMode) IsValid() bool {
	return m == SearchModeWeb || m == SearchModeNews
}

// String returns the string representation.
func (m SearchMode) String() string {
	return string(m)
}

// CandidateKind distinguishes the origin of a search candidate.
type CandidateKind string

// Candidate kinds.
const (
	// CandidateWebpage is a general web result.
	CandidateWebpage CandidateKind = "webpage"

	// CandidateNews is a freshness-filtered news result.
	CandidateNews CandidateKind = "news"
)

// SearchCandidate is one document returned by the first-stage search call.
// Candidates are ephemeral: they live only for the duration of a single
// retrieval and are discarded after reranking.
type SearchCandidate struct {
	// ID is the provider-assigned identifier.
	ID string

	// Title is the result title.
	Title string

	// Content is the summary or snippet text submitted to the reranker.
	Content string

	// CitationURL is the source URL used for citations in drafts.
	CitationURL string

	// Kind records whether this came from web or news search.
	Kind CandidateKind

	// PublishedAt is the publication date when the provider reports one.
	PublishedAt time.Time
}

// RankedResult is a search candidate with the reranker's relevance score
// attached. Results are ordered by the reranker's output order, descending
// relevance; that order, not the search order, is authoritative downstream.
type RankedResult struct {
	// Candidate is the originating search candidate.
	Candidate SearchCandidate

	// RelevanceScore is the reranker's score for this candidate.
	RelevanceScore float64
}
