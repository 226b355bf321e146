package assemblyai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
	"github.com/custodia-labs/lexdraft-cli/internal/retry"
)

var instantRetry = retry.Policy{
	Sleep: func(context.Context, time.Duration) error { return nil },
}

func newTestTranscriber(t *testing.T, handler http.Handler, keys ...string) *Transcriber {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	if len(keys) == 0 {
		keys = []string{"test-key"}
	}
	transcriber, err := New(Config{Keys: keys, BaseURL: server.URL})
	require.NoError(t, err)
	transcriber.SetRetryPolicy(instantRetry)
	return transcriber
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, domain.ErrNoKeysConfigured)
}

func TestUpload_ReturnsMediaURL(t *testing.T) {
	var gotBody []byte
	var gotAuth string
	transcriber := newTestTranscriber(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{
			"upload_url": "https://cdn.assemblyai.com/upload/abc",
		}))
	}))

	url, err := transcriber.Upload(context.Background(), strings.NewReader("audio-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.assemblyai.com/upload/abc", url)
	assert.Equal(t, "audio-bytes", string(gotBody))
	// AssemblyAI uses a bare key, not a Bearer token.
	assert.Equal(t, "test-key", gotAuth)
}

// The media body is buffered, so a rate-limited upload replays the same
// bytes with the next key.
func TestUpload_ReplaysBodyAfterRotation(t *testing.T) {
	var bodies []string
	transcriber := newTestTranscriber(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		if len(bodies) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{"upload_url": "u"}))
	}), "key-a", "key-b")

	_, err := transcriber.Upload(context.Background(), strings.NewReader("audio-bytes"))
	require.NoError(t, err)

	assert.Equal(t, []string{"audio-bytes", "audio-bytes"}, bodies)
}

func TestSubmit_ReturnsJobID(t *testing.T) {
	var gotReq transcriptRequest
	transcriber := newTestTranscriber(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transcript", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{
			"id": "job-1", "status": "queued",
		}))
	}))

	jobID, err := transcriber.Submit(context.Background(), "https://cdn.assemblyai.com/upload/abc")
	require.NoError(t, err)

	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, "https://cdn.assemblyai.com/upload/abc", gotReq.AudioURL)
}

func TestPoll_MapsTranscript(t *testing.T) {
	transcriber := newTestTranscriber(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transcript/job-1", r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{
			"id": "job-1", "status": "completed", "text": "counsel may proceed",
		}))
	}))

	transcript, err := transcriber.Poll(context.Background(), "job-1")
	require.NoError(t, err)

	assert.Equal(t, "job-1", transcript.ID)
	assert.Equal(t, domain.TranscriptCompleted, transcript.Status)
	assert.Equal(t, "counsel may proceed", transcript.Text)
}

func TestPoll_ErrorState(t *testing.T) {
	transcriber := newTestTranscriber(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{
			"id": "job-1", "status": "error", "error": "unsupported codec",
		}))
	}))

	transcript, err := transcriber.Poll(context.Background(), "job-1")
	require.NoError(t, err)

	assert.Equal(t, domain.TranscriptError, transcript.Status)
	assert.Equal(t, "unsupported codec", transcript.ErrorMessage)
}

// Each protocol step exhausts the ring independently.
func TestSubmit_ExhaustsRing(t *testing.T) {
	var calls int
	transcriber := newTestTranscriber(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}), "key-a", "key-b")

	_, err := transcriber.Submit(context.Background(), "https://cdn.example.com/u")

	assert.ErrorIs(t, err, domain.ErrRetriesExhausted)
	assert.Equal(t, 2, calls)
}

func TestPoll_ServerErrorIsFatal(t *testing.T) {
	var calls int
	transcriber := newTestTranscriber(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, "gone", http.StatusGone)
	}), "key-a", "key-b")

	_, err := transcriber.Poll(context.Background(), "job-1")

	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.Equal(t, 1, calls)
}
