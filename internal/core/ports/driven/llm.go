package driven

import "context"

// ChatMessage is a single message submitted to the completion provider.
// Distinct from domain.Message: provider messages have no identity or
// timestamps, and include the injected system message.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures one completion request.
type ChatOptions struct {
	// Thinking selects the slower reasoning model variant instead of the
	// fast chat variant.
	Thinking bool

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// ChatService provides streaming chat completions.
//
// Implementations may include any OpenAI-compatible chat.completions
// backend. The fast and thinking model names are adapter configuration.
type ChatService interface {
	// StreamChat runs one completion. onDelta is invoked once per received
	// content chunk, in order, from the calling goroutine. The full
	// accumulated response text is returned when the stream ends.
	StreamChat(ctx context.Context, messages []ChatMessage, opts ChatOptions, onDelta func(delta string)) (string, error)

	// ModelName returns the model that would serve a request with the
	// given options.
	ModelName(thinking bool) string

	// Close releases resources.
	Close() error
}
