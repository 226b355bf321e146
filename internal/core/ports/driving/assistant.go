package driving

import (
	"context"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
)

// TurnOptions configures a single assistant turn.
type TurnOptions struct {
	// Research enables the retrieval pipeline for this turn; retrieved
	// context is injected into the system message.
	Research bool

	// Mode selects the retrieval corpus when Research is on.
	Mode domain.SearchMode

	// CountryHint optionally scopes research to a jurisdiction.
	CountryHint string

	// Thinking selects the slower reasoning model variant.
	Thinking bool
}

// TurnResult is the outcome of one completed assistant turn.
type TurnResult struct {
	// Reply is the persisted assistant message (chat-visible text only).
	Reply domain.Message

	// Update is the document command extracted from the response, nil if
	// the response carried none.
	Update *domain.DocumentUpdate

	// Draft is the conversation's draft after applying Update, nil if the
	// conversation has no draft and no update was produced.
	Draft *domain.Draft

	// Sources are the reranked retrieval results used for context,
	// empty when research was off or found nothing.
	Sources []domain.RankedResult
}

// AssistantService drives conversation turns.
type AssistantService interface {
	// NewConversation creates and persists an empty conversation.
	NewConversation(ctx context.Context, title string) (*domain.Conversation, error)

	// Send records the user's message, streams the assistant's reply, and
	// applies any document command. onDelta, when non-nil, is invoked with
	// each new chunk of chat-visible text as the response streams.
	Send(ctx context.Context, conversationID, input string, opts TurnOptions, onDelta func(chatText string)) (*TurnResult, error)

	// History returns a conversation's persisted messages in order.
	History(ctx context.Context, conversationID string) ([]domain.Message, error)
}
