// Package openai provides a chat service adapter using the OpenAI API,
// or any API speaking the same protocol.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexdraft-cli/internal/retry"
)

// Ensure ChatService implements the interface.
var _ driven.ChatService = (*ChatService)(nil)

// Default configuration values.
const (
	DefaultBaseURL       = "https://api.openai.com/v1"
	DefaultFastModel     = "gpt-4o-mini"
	DefaultThinkingModel = "o3-mini"

	// Connection timeout for establishing the stream. The stream itself
	// is bounded by the request context, not the client timeout.
	DefaultConnectTimeout = 30 * time.Second
)

// Config holds configuration for the OpenAI chat service.
type Config struct {
	// Keys are the API keys, rotated on rate limiting (at least one required).
	Keys []string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// FastModel is the model used for ordinary turns (default: gpt-4o-mini).
	FastModel string

	// ThinkingModel is the model used when extended reasoning is requested
	// (default: o3-mini).
	ThinkingModel string
}

// ChatService provides streaming chat completions.
type ChatService struct {
	client        *http.Client
	baseURL       string
	fastModel     string
	thinkingModel string
	ring          *domain.KeyRing
	policy        retry.Policy
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	Stream      bool                `json:"stream"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

// chatCompletionMsg is the OpenAI chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionChunk is one SSE event of a streamed completion.
type chatCompletionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// New creates a new OpenAI chat service.
func New(cfg Config) (*ChatService, error) {
	ring := domain.NewKeyRing(cfg.Keys)
	if ring.Size() == 0 {
		return nil, fmt.Errorf("openai: %w", domain.ErrNoKeysConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.FastModel == "" {
		cfg.FastModel = DefaultFastModel
	}
	if cfg.ThinkingModel == "" {
		cfg.ThinkingModel = DefaultThinkingModel
	}

	return &ChatService{
		// No client timeout: a streamed completion legitimately outlives
		// any fixed deadline. Cancellation comes from the context.
		client:        &http.Client{},
		baseURL:       cfg.BaseURL,
		fastModel:     cfg.FastModel,
		thinkingModel: cfg.ThinkingModel,
		ring:          ring,
	}, nil
}

// SetRetryPolicy overrides the rate-limit retry policy. Useful for testing.
func (s *ChatService) SetRetryPolicy(policy retry.Policy) {
	s.policy = policy
}

// ModelName returns the model used for a turn.
func (s *ChatService) ModelName(thinking bool) string {
	if thinking {
		return s.thinkingModel
	}
	return s.fastModel
}

// StreamChat sends a chat completion request and streams the response,
// invoking onDelta for each content fragment. It returns the full
// accumulated response text. A 429 before the stream starts rotates the
// key ring and retries; errors after streaming has begun are fatal.
func (s *ChatService) StreamChat(
	ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions, onDelta func(string),
) (string, error) {
	wireMsgs := make([]chatCompletionMsg, 0, len(messages))
	for _, msg := range messages {
		wireMsgs = append(wireMsgs, chatCompletionMsg{Role: msg.Role, Content: msg.Content})
	}

	reqBody := chatCompletionRequest{
		Model:       s.ModelName(opts.Thinking),
		Messages:    wireMsgs,
		Stream:      true,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	var full string
	err = s.policy.Do(ctx, s.ring, "openai chat", func(key string) error {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(jsonBody),
		)
		if err != nil {
			return fmt.Errorf("openai: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "text/event-stream")
		req.Header.Set("Authorization", "Bearer "+key)

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("openai: send request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("openai: %w", domain.ErrRateLimited)
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("openai: %w: status %d: %s", domain.ErrProvider, resp.StatusCode, string(body))
		}

		full, err = readStream(resp.Body, onDelta)
		return err
	})
	if err != nil {
		return "", err
	}

	return full, nil
}

// readStream consumes an SSE body until the [DONE] sentinel, forwarding
// content deltas as they arrive.
func readStream(body io.Reader, onDelta func(string)) (string, error) {
	var full strings.Builder
	scanner := bufio.NewScanner(body)
	// Allow for long single-event lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			break
		}

		var chunk chatCompletionChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return "", fmt.Errorf("openai: %w: decode stream event: %v", domain.ErrProvider, err)
		}
		if chunk.Error != nil {
			return "", fmt.Errorf("openai: %w: %s", domain.ErrProvider, chunk.Error.Message)
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("openai: read stream: %w", err)
	}

	return full.String(), nil
}

// Close releases resources.
func (s *ChatService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
