package mcp

import (
	"context"
	"errors"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
)

// ResearchInput is the input schema for the legal research tool.
type ResearchInput struct {
	Query   string `json:"query" jsonschema:"the legal question or topic to research"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	News    bool   `json:"news,omitempty" jsonschema:"search recent news instead of general web sources"`
	Country string `json:"country,omitempty" jsonschema:"jurisdiction to scope the research to, e.g. India"`
}

// ResearchOutput is the output schema for the legal research tool.
type ResearchOutput struct {
	Results []ResearchResultOutput `json:"results"`
	Count   int                    `json:"count"`
}

// ResearchResultOutput represents a single research result.
type ResearchResultOutput struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	URL     string  `json:"url"`
	Score   float64 `json:"score"`
	Kind    string  `json:"kind"`
}

// TranscribeInput is the input schema for the transcribe tool.
type TranscribeInput struct {
	Path string `json:"path" jsonschema:"path to the audio file to transcribe"`
}

// TranscribeOutput is the output schema for the transcribe tool.
type TranscribeOutput struct {
	Text string `json:"text"`
}

// ErrTranscriptionUnavailable is returned when no transcription service is configured.
var ErrTranscriptionUnavailable = errors.New("mcp: transcription service not configured")

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "legal_research",
		Description: "Search and rank legal sources for a question or topic",
	}, s.handleResearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "transcribe",
		Description: "Transcribe an audio file, such as a hearing recording or dictation",
	}, s.handleTranscribe)
}

// handleResearch handles the legal research tool invocation.
func (s *Server) handleResearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ResearchInput,
) (*mcp.CallToolResult, ResearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}

	mode := domain.SearchModeWeb
	if input.News {
		mode = domain.SearchModeNews
	}

	results, err := s.ports.Retrieval.Retrieve(ctx, input.Query, limit, mode, input.Country)
	if err != nil {
		return nil, ResearchOutput{}, err
	}

	output := ResearchOutput{
		Results: make([]ResearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = ResearchResultOutput{
			Title:   results[i].Candidate.Title,
			Content: results[i].Candidate.Content,
			URL:     results[i].Candidate.CitationURL,
			Score:   results[i].RelevanceScore,
			Kind:    string(results[i].Candidate.Kind),
		}
	}

	return nil, output, nil
}

// handleTranscribe handles the transcribe tool invocation.
func (s *Server) handleTranscribe(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TranscribeInput,
) (*mcp.CallToolResult, TranscribeOutput, error) {
	if s.ports.Transcription == nil {
		return nil, TranscribeOutput{}, ErrTranscriptionUnavailable
	}

	media, err := os.Open(input.Path)
	if err != nil {
		return nil, TranscribeOutput{}, err
	}
	defer media.Close()

	text, err := s.ports.Transcription.Transcribe(ctx, media)
	if err != nil {
		return nil, TranscribeOutput{}, err
	}

	return nil, TranscribeOutput{Text: text}, nil
}
