package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/lexdraft-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
)

// mockRetrieval implements driving.RetrievalService for testing.
type mockRetrieval struct {
	results  []domain.RankedResult
	err      error
	lastMode domain.SearchMode
	lastTopN int
	lastHint string
}

func (m *mockRetrieval) Retrieve(
	_ context.Context, _ string, topN int, mode domain.SearchMode, countryHint string,
) ([]domain.RankedResult, error) {
	m.lastTopN = topN
	m.lastMode = mode
	m.lastHint = countryHint
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// mockTranscription implements driving.TranscriptionService for testing.
type mockTranscription struct {
	text string
	err  error
}

func (m *mockTranscription) Transcribe(_ context.Context, media io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, media)
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// newTestPorts returns ports backed by in-memory stores.
func newTestPorts(retrieval *mockRetrieval) *Ports {
	return &Ports{
		Retrieval:     retrieval,
		Conversations: memory.NewConversationStore(),
		Drafts:        memory.NewDraftStore(),
	}
}
