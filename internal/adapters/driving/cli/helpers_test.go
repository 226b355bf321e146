package cli

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexdraft-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lexdraft-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
)

// stubRetrieval implements driving.RetrievalService with fixed results.
type stubRetrieval struct {
	results []domain.RankedResult
	err     error
}

func (s *stubRetrieval) Retrieve(
	_ context.Context, _ string, _ int, _ domain.SearchMode, _ string,
) ([]domain.RankedResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

// stubTranscription implements driving.TranscriptionService.
type stubTranscription struct {
	text string
	err  error
}

func (s *stubTranscription) Transcribe(_ context.Context, media io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, media)
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

// setupTestServices wires the package-level services against temp storage
// so initServices becomes a no-op. Returns a cleanup that unwires them.
func setupTestServices(t *testing.T, retrieval *stubRetrieval) func() {
	t.Helper()

	cfg, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	db, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)

	configStore = cfg
	store = db
	retrievalService = &reloadableRetrieval{}
	if retrieval != nil {
		retrievalService.Set(retrieval)
	}
	transcriptionService = &stubTranscription{text: "counsel may proceed"}

	return func() {
		db.Close()
		configStore = nil
		store = nil
		retrievalService = nil
		transcriptionService = nil
		assistantService = nil
	}
}

func sampleResults() []domain.RankedResult {
	return []domain.RankedResult{
		{
			Candidate: domain.SearchCandidate{
				Title:       "Smith v Jones",
				Content:     "Landmark adverse possession ruling.",
				CitationURL: "https://example.com/smith",
				Kind:        domain.CandidateWebpage,
			},
			RelevanceScore: 0.9,
		},
	}
}
