package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoKeysConfigured indicates a provider has no API keys configured.
	// This is fatal and never retried.
	ErrNoKeysConfigured = errors.New("no API keys configured")

	// ErrRateLimited indicates the provider rejected a request with HTTP 429.
	// This is an internal control signal: callers rotate the key ring and
	// retry rather than surfacing it to the user.
	ErrRateLimited = errors.New("rate limited")

	// ErrRetriesExhausted indicates every configured key was rate limited.
	// Surfaced to the user as a "try again later" condition.
	ErrRetriesExhausted = errors.New("all API keys rate limited")

	// ErrProvider indicates a non-retryable provider failure
	// (unexpected HTTP status or a malformed response body).
	ErrProvider = errors.New("provider request failed")

	// ErrTranscriptionFailed indicates the transcription provider reported
	// a terminal error while processing a job.
	ErrTranscriptionFailed = errors.New("transcription failed")

	// ErrChatUnavailable indicates the chat completion service is not configured.
	ErrChatUnavailable = errors.New("chat service unavailable")

	// ErrSearchUnavailable indicates the web search provider is not configured.
	// Retrieval-augmented answers are disabled without it.
	ErrSearchUnavailable = errors.New("search provider unavailable")

	// ErrRerankUnavailable indicates the reranking provider is not configured.
	ErrRerankUnavailable = errors.New("rerank provider unavailable")
)
