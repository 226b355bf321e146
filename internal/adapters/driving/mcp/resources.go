package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for lexdraft resources.
	uriScheme = "lexdraft://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing conversations.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "conversations",
		Name:        "conversations",
		Description: "List of all stored conversations",
		MIMEType:    "application/json",
	}, s.handleConversationsResource)

	// Template for conversation messages.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "conversations/{conversationId}/messages",
		Name:        "conversation-messages",
		Description: "Messages of a specific conversation",
		MIMEType:    "application/json",
	}, s.handleMessagesResource)

	// Template for the draft attached to a conversation.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "conversations/{conversationId}/draft",
		Name:        "conversation-draft",
		Description: "The working document drafted in a specific conversation",
		MIMEType:    "text/plain",
	}, s.handleDraftResource)
}

// handleConversationsResource returns a list of all stored conversations.
func (s *Server) handleConversationsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Conversations == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	convs, err := s.ports.Conversations.ListConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}

	// Build simplified conversation list.
	type convInfo struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		UpdatedAt string `json:"updated_at"`
	}

	infos := make([]convInfo, len(convs))
	for i, conv := range convs {
		infos[i] = convInfo{
			ID:        conv.ID,
			Title:     conv.Title,
			UpdatedAt: conv.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling conversations: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleMessagesResource returns the messages of a specific conversation.
func (s *Server) handleMessagesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Conversations == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract conversationId from URI: lexdraft://conversations/{conversationId}/messages
	convID := extractConversationID(req.Params.URI, "/messages")
	if convID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	msgs, err := s.ports.Conversations.ListMessages(ctx, convID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	// Build simplified message list.
	type msgInfo struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	infos := make([]msgInfo, len(msgs))
	for i := range msgs {
		infos[i] = msgInfo{
			Role:    string(msgs[i].Role),
			Content: msgs[i].Content,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling messages: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDraftResource returns the draft attached to a conversation.
func (s *Server) handleDraftResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Drafts == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract conversationId from URI: lexdraft://conversations/{conversationId}/draft
	convID := extractConversationID(req.Params.URI, "/draft")
	if convID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	draft, err := s.ports.Drafts.GetDraftByConversation(ctx, convID)
	if err != nil {
		return nil, fmt.Errorf("getting draft: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     draft.Content,
		}},
	}, nil
}

// extractConversationID extracts the conversation ID from a URI like
// lexdraft://conversations/{conversationId}{suffix}.
func extractConversationID(uri, suffix string) string {
	const prefix = uriScheme + "conversations/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
