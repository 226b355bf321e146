package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexdraft-cli/internal/logger"
	"github.com/custodia-labs/lexdraft-cli/internal/streamtag"
)

// Ensure AssistantService implements the interface.
var _ driving.AssistantService = (*AssistantService)(nil)

// ContextResults is how many reranked results are injected into the system
// message when research mode is on.
const ContextResults = 5

// defaultConversationTitle is used until the first user message names the
// conversation.
const defaultConversationTitle = "New conversation"

// titleLimit caps conversation titles derived from the first user message.
const titleLimit = 64

// systemPrompt instructs the model on its role and the document command
// vocabulary. The tag contract must match what the stream parser recognises.
const systemPrompt = `You are a legal research and drafting assistant.
Answer questions about cases, statutes, and legal doctrine concisely and cite sources when context is provided.

When the user asks you to draft or extend the working document, wrap the document text in <DOCUMENT_WRITE>...</DOCUMENT_WRITE>.
When the user asks you to rewrite the working document from scratch, wrap the full replacement in <DOCUMENT_REPLACE>...</DOCUMENT_REPLACE>.
Use at most one such block per response. Everything outside the block is shown in the chat.`

// AssistantService drives conversation turns: it persists messages, gathers
// retrieval context, streams the completion, and applies document commands
// to the conversation's draft.
type AssistantService struct {
	chat      driven.ChatService
	retrieval driving.RetrievalService
	convStore driven.ConversationStore
	drafts    driven.DraftStore
}

// NewAssistantService creates a new assistant service.
// The retrieval parameter is optional (can be nil); research mode is then
// unavailable and turns run without injected context.
func NewAssistantService(
	chat driven.ChatService,
	retrieval driving.RetrievalService,
	convStore driven.ConversationStore,
	drafts driven.DraftStore,
) *AssistantService {
	return &AssistantService{
		chat:      chat,
		retrieval: retrieval,
		convStore: convStore,
		drafts:    drafts,
	}
}

// NewConversation creates and persists an empty conversation.
func (s *AssistantService) NewConversation(ctx context.Context, title string) (*domain.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultConversationTitle
	}

	now := time.Now().UTC()
	conv := domain.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.convStore.SaveConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("new conversation: %w", err)
	}
	return &conv, nil
}

// History returns a conversation's persisted messages in order.
func (s *AssistantService) History(ctx context.Context, conversationID string) ([]domain.Message, error) {
	return s.convStore.ListMessages(ctx, conversationID)
}

// Send runs one assistant turn.
func (s *AssistantService) Send(
	ctx context.Context, conversationID, input string, opts driving.TurnOptions, onDelta func(chatText string),
) (*driving.TurnResult, error) {
	logger.Section("Assistant Turn")

	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("send: %w: empty message", domain.ErrInvalidInput)
	}
	if s.chat == nil {
		return nil, fmt.Errorf("send: %w", domain.ErrChatUnavailable)
	}

	conv, err := s.convStore.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}

	history, err := s.convStore.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("send: list messages: %w", err)
	}

	now := time.Now().UTC()
	userMsg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        input,
		CreatedAt:      now,
	}
	if err := s.convStore.SaveMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("send: save user message: %w", err)
	}

	// Retrieval failure is fatal for the turn: the caller surfaces the
	// error and nothing further is sent to the model.
	var sources []domain.RankedResult
	if opts.Research {
		if s.retrieval == nil {
			return nil, fmt.Errorf("send: %w", domain.ErrSearchUnavailable)
		}
		mode := opts.Mode
		if !mode.IsValid() {
			mode = domain.SearchModeWeb
		}
		sources, err = s.retrieval.Retrieve(ctx, input, ContextResults, mode, opts.CountryHint)
		if err != nil {
			return nil, fmt.Errorf("send: %w", err)
		}
		logger.Debug("Context: %d retrieved sources", len(sources))
	}

	messages := buildChatMessages(history, userMsg, sources)

	// Stream the completion, re-parsing the accumulated buffer on every
	// chunk so command markup never reaches the caller mid-stream.
	var buffer strings.Builder
	var lastChat string
	full, err := s.chat.StreamChat(ctx, messages, driven.ChatOptions{Thinking: opts.Thinking}, func(delta string) {
		buffer.WriteString(delta)
		parsed := streamtag.Parse(buffer.String())
		if onDelta != nil && parsed.ChatText != lastChat {
			lastChat = parsed.ChatText
			onDelta(parsed.ChatText)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("send: completion: %w", err)
	}

	parsed := streamtag.Parse(full)

	reply := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		Content:        parsed.ChatText,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.convStore.SaveMessage(ctx, reply); err != nil {
		return nil, fmt.Errorf("send: save reply: %w", err)
	}

	result := &driving.TurnResult{
		Reply:   reply,
		Update:  parsed.Command,
		Sources: sources,
	}

	if parsed.Command != nil {
		draft, err := s.applyUpdate(ctx, conv, *parsed.Command)
		if err != nil {
			return nil, fmt.Errorf("send: %w", err)
		}
		result.Draft = draft
		logger.Info("Applied %s command to draft %s", parsed.Command.Kind, draft.ID)
	}

	// First user message names the conversation.
	if len(history) == 0 && conv.Title == defaultConversationTitle {
		conv.Title = deriveTitle(input)
	}
	conv.UpdatedAt = time.Now().UTC()
	if err := s.convStore.SaveConversation(ctx, *conv); err != nil {
		return nil, fmt.Errorf("send: update conversation: %w", err)
	}

	return result, nil
}

// applyUpdate applies a document command to the conversation's draft,
// creating the draft on first use.
func (s *AssistantService) applyUpdate(
	ctx context.Context, conv *domain.Conversation, update domain.DocumentUpdate,
) (*domain.Draft, error) {
	draft, err := s.drafts.GetDraftByConversation(ctx, conv.ID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		draft = &domain.Draft{
			ID:             uuid.NewString(),
			ConversationID: conv.ID,
			Title:          conv.Title,
		}
	default:
		return nil, fmt.Errorf("load draft: %w", err)
	}

	draft.Apply(update)
	draft.UpdatedAt = time.Now().UTC()
	if err := s.drafts.SaveDraft(ctx, *draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

// buildChatMessages assembles the provider message list: the system message
// (with retrieved context appended when present), prior history, then the
// new user message.
func buildChatMessages(
	history []domain.Message, userMsg domain.Message, sources []domain.RankedResult,
) []driven.ChatMessage {
	system := systemPrompt
	if len(sources) > 0 {
		var b strings.Builder
		b.WriteString(system)
		b.WriteString("\n\nRelevant sources, in descending relevance:\n")
		for i, src := range sources {
			fmt.Fprintf(&b, "\n[%d] %s\n%s\n(%s)\n",
				i+1, src.Candidate.Title, src.Candidate.Content, src.Candidate.CitationURL)
		}
		system = b.String()
	}

	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{Role: string(domain.RoleSystem), Content: system})
	for _, msg := range history {
		messages = append(messages, driven.ChatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	messages = append(messages, driven.ChatMessage{Role: string(domain.RoleUser), Content: userMsg.Content})
	return messages
}

// deriveTitle shortens the first user message into a conversation title.
func deriveTitle(input string) string {
	title := strings.Join(strings.Fields(input), " ")
	if len(title) > titleLimit {
		title = strings.TrimSpace(title[:titleLimit]) + "..."
	}
	return title
}
