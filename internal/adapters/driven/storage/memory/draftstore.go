package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driven"
)

// Ensure DraftStore implements the interface.
var _ driven.DraftStore = (*DraftStore)(nil)

// DraftStore is an in-memory implementation of driven.DraftStore. Each
// conversation holds at most one draft.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[string]domain.Draft // keyed by conversation ID
}

// NewDraftStore creates a new in-memory draft store.
func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[string]domain.Draft)}
}

// SaveDraft stores or updates a draft.
func (s *DraftStore) SaveDraft(_ context.Context, draft domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[draft.ConversationID] = draft
	return nil
}

// GetDraft retrieves a draft by ID.
func (s *DraftStore) GetDraft(_ context.Context, id string) (*domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, draft := range s.drafts {
		if draft.ID == id {
			return &draft, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetDraftByConversation retrieves the draft attached to a conversation.
func (s *DraftStore) GetDraftByConversation(_ context.Context, conversationID string) (*domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	draft, ok := s.drafts[conversationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &draft, nil
}

// DeleteDraft removes a draft by ID.
func (s *DraftStore) DeleteDraft(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, draft := range s.drafts {
		if draft.ID == id {
			delete(s.drafts, key)
			return nil
		}
	}
	return domain.ErrNotFound
}
