package driven

import (
	"context"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
)

// DraftStore persists the working documents attached to conversations.
type DraftStore interface {
	// SaveDraft stores or updates a draft.
	SaveDraft(ctx context.Context, draft domain.Draft) error

	// GetDraft retrieves a draft by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDraft(ctx context.Context, id string) (*domain.Draft, error)

	// GetDraftByConversation retrieves the draft owned by a conversation.
	// Returns domain.ErrNotFound if the conversation has no draft yet.
	GetDraftByConversation(ctx context.Context, conversationID string) (*domain.Draft, error)

	// DeleteDraft removes a draft.
	DeleteDraft(ctx context.Context, id string) error
}
