package mcp

import (
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driving"
)

// Ports aggregates the interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval runs search plus rerank for legal research.
	Retrieval driving.RetrievalService

	// Transcription converts audio files to text.
	Transcription driving.TranscriptionService

	// Conversations exposes stored conversations as resources.
	Conversations driven.ConversationStore

	// Drafts exposes stored drafts as resources.
	Drafts driven.DraftStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	// Transcription, Conversations and Drafts are optional
	return nil
}
