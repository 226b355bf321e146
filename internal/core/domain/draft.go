package domain

import "time"

// UpdateKind describes how a DocumentUpdate mutates a draft.
type UpdateKind string

// Document update kinds.
const (
	// UpdateAppend adds the payload to the end of the draft.
	UpdateAppend UpdateKind = "append"

	// UpdateReplace discards the draft body and substitutes the payload.
	UpdateReplace UpdateKind = "replace"
)

// IsValid returns true if the update kind is recognised.
func (k UpdateKind) IsValid() bool {
	return k == UpdateAppend || k == UpdateReplace
}

// DocumentUpdate is an instruction to mutate a draft, extracted from a
// completed assistant response. At most one update is produced per
// response; it is applied immediately and not persisted as its own entity.
type DocumentUpdate struct {
	// Kind selects append or replace semantics.
	Kind UpdateKind

	// Payload is the text to splice into the draft, already trimmed.
	Payload string
}

// Draft is the working legal document attached to a conversation.
type Draft struct {
	// ID is the unique identifier for the draft.
	ID string

	// ConversationID links to the owning Conversation.
	ConversationID string

	// Title is the human-readable document title.
	Title string

	// Content is the full document text.
	Content string

	// UpdatedAt is when the draft was last mutated.
	UpdatedAt time.Time
}

// Apply mutates the draft content according to the update.
func (d *Draft) Apply(update DocumentUpdate) {
	switch update.Kind {
	case UpdateReplace:
		d.Content = update.Payload
	case UpdateAppend:
		if d.Content == "" {
			d.Content = update.Payload
			return
		}
		d.Content = d.Content + "\n\n" + update.Payload
	}
}
