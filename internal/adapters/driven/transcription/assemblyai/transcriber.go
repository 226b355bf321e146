// Package assemblyai provides a transcription adapter using the
// AssemblyAI API.
package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexdraft-cli/internal/retry"
)

// Ensure Transcriber implements the interface.
var _ driven.Transcriber = (*Transcriber)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.assemblyai.com/v2"

	// Uploads carry whole audio files, so the timeout is generous.
	DefaultUploadTimeout = 5 * time.Minute
	DefaultTimeout       = 30 * time.Second
)

// Config holds configuration for the AssemblyAI transcriber.
type Config struct {
	// Keys are the API keys, rotated on rate limiting (at least one required).
	Keys []string

	// BaseURL is the API base URL (default: https://api.assemblyai.com/v2).
	BaseURL string

	// Timeout is the request timeout for submit and poll calls (default: 30s).
	Timeout time.Duration

	// UploadTimeout is the request timeout for media uploads (default: 5m).
	UploadTimeout time.Duration
}

// Transcriber runs the AssemblyAI upload, submit, poll protocol. Each
// protocol step rotates the key ring and retries on rate limiting
// independently of the others.
type Transcriber struct {
	client       *http.Client
	uploadClient *http.Client
	baseURL      string
	ring         *domain.KeyRing
	policy       retry.Policy
}

// uploadResponse is the /upload response format.
type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

// transcriptRequest is the /transcript submission format.
type transcriptRequest struct {
	AudioURL string `json:"audio_url"`
}

// transcriptResponse is the /transcript response format, shared by
// submission and polling.
type transcriptResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// New creates a new AssemblyAI transcriber.
func New(cfg Config) (*Transcriber, error) {
	ring := domain.NewKeyRing(cfg.Keys)
	if ring.Size() == 0 {
		return nil, fmt.Errorf("assemblyai: %w", domain.ErrNoKeysConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UploadTimeout == 0 {
		cfg.UploadTimeout = DefaultUploadTimeout
	}

	return &Transcriber{
		client:       &http.Client{Timeout: cfg.Timeout},
		uploadClient: &http.Client{Timeout: cfg.UploadTimeout},
		baseURL:      cfg.BaseURL,
		ring:         ring,
	}, nil
}

// SetRetryPolicy overrides the rate-limit retry policy. Useful for testing.
func (t *Transcriber) SetRetryPolicy(policy retry.Policy) {
	t.policy = policy
}

// Upload sends the raw media bytes and returns the provider's URL for them.
// The media is buffered in memory so a rate-limited attempt can be replayed
// with the next key.
func (t *Transcriber) Upload(ctx context.Context, media io.Reader) (string, error) {
	data, err := io.ReadAll(media)
	if err != nil {
		return "", fmt.Errorf("assemblyai: read media: %w", err)
	}

	var audioURL string
	err = t.policy.Do(ctx, t.ring, "assemblyai upload", func(key string) error {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, t.baseURL+"/upload", bytes.NewReader(data),
		)
		if err != nil {
			return fmt.Errorf("assemblyai: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/octet-stream")
		req.Header.Set("Authorization", key)

		var uploadResp uploadResponse
		if err := t.do(t.uploadClient, req, &uploadResp); err != nil {
			return err
		}
		audioURL = uploadResp.UploadURL
		return nil
	})
	if err != nil {
		return "", err
	}

	return audioURL, nil
}

// Submit queues a transcription job for an uploaded media URL and returns
// the job ID.
func (t *Transcriber) Submit(ctx context.Context, audioURL string) (string, error) {
	jsonBody, err := json.Marshal(transcriptRequest{AudioURL: audioURL})
	if err != nil {
		return "", fmt.Errorf("assemblyai: marshal request: %w", err)
	}

	var jobID string
	err = t.policy.Do(ctx, t.ring, "assemblyai submit", func(key string) error {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, t.baseURL+"/transcript", bytes.NewReader(jsonBody),
		)
		if err != nil {
			return fmt.Errorf("assemblyai: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", key)

		var submitResp transcriptResponse
		if err := t.do(t.client, req, &submitResp); err != nil {
			return err
		}
		jobID = submitResp.ID
		return nil
	})
	if err != nil {
		return "", err
	}

	return jobID, nil
}

// Poll fetches the current state of a transcription job.
func (t *Transcriber) Poll(ctx context.Context, jobID string) (domain.Transcript, error) {
	var transcript domain.Transcript
	err := t.policy.Do(ctx, t.ring, "assemblyai poll", func(key string) error {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodGet, t.baseURL+"/transcript/"+jobID, nil,
		)
		if err != nil {
			return fmt.Errorf("assemblyai: create request: %w", err)
		}
		req.Header.Set("Authorization", key)

		var pollResp transcriptResponse
		if err := t.do(t.client, req, &pollResp); err != nil {
			return err
		}
		transcript = domain.Transcript{
			ID:           pollResp.ID,
			Status:       domain.TranscriptStatus(pollResp.Status),
			Text:         pollResp.Text,
			ErrorMessage: pollResp.Error,
		}
		return nil
	})
	if err != nil {
		return domain.Transcript{}, err
	}

	return transcript, nil
}

// do executes a request and decodes the JSON body into out, translating
// HTTP failures into domain errors.
func (t *Transcriber) do(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("assemblyai: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("assemblyai: %w", domain.ErrRateLimited)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("assemblyai: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("assemblyai: %w: status %d: %s", domain.ErrProvider, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("assemblyai: %w: decode response: %v", domain.ErrProvider, err)
	}
	return nil
}

// Close releases resources.
func (t *Transcriber) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
