package langsearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexdraft-cli/internal/retry"
)

// instantRetry is a retry policy that never sleeps.
var instantRetry = retry.Policy{
	Sleep: func(context.Context, time.Duration) error { return nil },
}

func resultsPayload(titles ...string) map[string]any {
	value := make([]map[string]any, 0, len(titles))
	for i, title := range titles {
		value = append(value, map[string]any{
			"id":            title + "-id",
			"name":          title,
			"summary":       "summary of " + title,
			"snippet":       "snippet of " + title,
			"url":           "https://example.com/" + title,
			"datePublished": time.Date(2025, 6, 1+i, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		})
	}
	return map[string]any{
		"data": map[string]any{
			"webPages": map[string]any{"value": value},
		},
	}
}

func newTestProvider(t *testing.T, handler http.HandlerFunc, keys ...string) *SearchProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	if len(keys) == 0 {
		keys = []string{"test-key"}
	}
	provider, err := New(Config{Keys: keys, BaseURL: server.URL})
	require.NoError(t, err)
	provider.SetRetryPolicy(instantRetry)
	return provider
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, domain.ErrNoKeysConfigured)

	// Blank keys do not count.
	_, err = New(Config{Keys: []string{"", "  "}})
	assert.ErrorIs(t, err, domain.ErrNoKeysConfigured)
}

func TestSearch_MapsCandidates(t *testing.T) {
	var gotReq webSearchRequest
	var gotAuth string
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		require.NoError(t, json.NewEncoder(w).Encode(resultsPayload("alpha", "beta")))
	})

	candidates, err := provider.Search(context.Background(), driven.SearchQuery{
		Text:  "adverse possession",
		Count: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "adverse possession", gotReq.Query)
	assert.Equal(t, 10, gotReq.Count)
	assert.True(t, gotReq.Summary)

	require.Len(t, candidates, 2)
	assert.Equal(t, "alpha", candidates[0].Title)
	assert.Equal(t, "summary of alpha", candidates[0].Content, "summary preferred over snippet")
	assert.Equal(t, "https://example.com/alpha", candidates[0].CitationURL)
	assert.Equal(t, domain.CandidateWebpage, candidates[0].Kind)
	assert.False(t, candidates[0].PublishedAt.IsZero())
}

func TestSearch_NewsFreshnessForwarded(t *testing.T) {
	var gotReq webSearchRequest
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		require.NoError(t, json.NewEncoder(w).Encode(resultsPayload("story")))
	})

	candidates, err := provider.Search(context.Background(), driven.SearchQuery{
		Text:      "data protection ruling",
		Count:     5,
		Freshness: "oneDay",
	})
	require.NoError(t, err)

	assert.Equal(t, "oneDay", gotReq.Freshness)
	require.Len(t, candidates, 1)
	assert.Equal(t, domain.CandidateNews, candidates[0].Kind)
}

// A 429 rotates to the next key and retries; the second key succeeds.
func TestSearch_RotatesKeyOnRateLimit(t *testing.T) {
	var authHeaders []string
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		if len(authHeaders) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(resultsPayload("alpha")))
	}, "key-a", "key-b")

	candidates, err := provider.Search(context.Background(), driven.SearchQuery{Text: "q", Count: 10})
	require.NoError(t, err)

	assert.Len(t, candidates, 1)
	assert.Equal(t, []string{"Bearer key-a", "Bearer key-b"}, authHeaders)
}

// Every key rate-limited: the whole ring is tried once, then retries exhaust.
func TestSearch_ExhaustsRing(t *testing.T) {
	var calls int
	provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}, "key-a", "key-b", "key-c")

	_, err := provider.Search(context.Background(), driven.SearchQuery{Text: "q", Count: 10})

	assert.ErrorIs(t, err, domain.ErrRetriesExhausted)
	assert.Equal(t, 3, calls)
}

// Non-429 failures are not retried.
func TestSearch_ServerErrorIsFatal(t *testing.T) {
	var calls int
	provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, "internal error", http.StatusInternalServerError)
	}, "key-a", "key-b")

	_, err := provider.Search(context.Background(), driven.SearchQuery{Text: "q", Count: 10})

	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, 1, calls)
}

func TestSearch_EmptyResults(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(resultsPayload()))
	})

	candidates, err := provider.Search(context.Background(), driven.SearchQuery{Text: "q", Count: 10})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
