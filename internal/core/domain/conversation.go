package domain

import "time"

// Role identifies the author of a chat message.
type Role string

// Message roles.
const (
	// RoleUser marks a message written by the person using the assistant.
	RoleUser Role = "user"

	// RoleAssistant marks a message produced by the completion model.
	RoleAssistant Role = "assistant"

	// RoleSystem marks an injected instruction message. System messages
	// carry retrieved context and drafting instructions; they are built per
	// request and never persisted.
	RoleSystem Role = "system"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// Conversation is a chat session between the user and the assistant.
// Each conversation owns at most one Draft.
type Conversation struct {
	// ID is the unique identifier for the conversation.
	ID string

	// Title is a short human-readable label, usually derived from the
	// first user message.
	Title string

	// CreatedAt is when the conversation was started.
	CreatedAt time.Time

	// UpdatedAt is when a message was last added.
	UpdatedAt time.Time
}

// Message is a single turn within a conversation.
type Message struct {
	// ID is the unique identifier for the message.
	ID string

	// ConversationID links to the owning Conversation.
	ConversationID string

	// Role is who authored the message.
	Role Role

	// Content is the message text. For assistant messages this is the
	// chat-visible text only; document command blocks are stripped before
	// persistence.
	Content string

	// CreatedAt is when the message was recorded.
	CreatedAt time.Time
}
