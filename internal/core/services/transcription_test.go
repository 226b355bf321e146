package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
)

// mockTranscriber implements driven.Transcriber with scripted poll states.
type mockTranscriber struct {
	uploadErr error
	submitErr error
	pollErr   error

	states    []domain.Transcript
	pollCalls int
}

func (m *mockTranscriber) Upload(_ context.Context, media io.Reader) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	// Drain the reader like a real upload would.
	_, _ = io.Copy(io.Discard, media)
	return "https://cdn.example.com/upload/abc", nil
}

func (m *mockTranscriber) Submit(_ context.Context, _ string) (string, error) {
	if m.submitErr != nil {
		return "", m.submitErr
	}
	return "job-1", nil
}

func (m *mockTranscriber) Poll(_ context.Context, _ string) (domain.Transcript, error) {
	if m.pollErr != nil {
		return domain.Transcript{}, m.pollErr
	}
	state := m.states[m.pollCalls]
	if m.pollCalls < len(m.states)-1 {
		m.pollCalls++
	}
	return state, nil
}

func (m *mockTranscriber) Close() error { return nil }

func newTranscriptionService(t *mockTranscriber, waits *[]time.Duration) *TranscriptionService {
	svc := NewTranscriptionService(t)
	svc.SetSleep(func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	})
	return svc
}

func TestTranscribe_PollsUntilCompleted(t *testing.T) {
	transcriber := &mockTranscriber{states: []domain.Transcript{
		{ID: "job-1", Status: domain.TranscriptQueued},
		{ID: "job-1", Status: domain.TranscriptProcessing},
		{ID: "job-1", Status: domain.TranscriptCompleted, Text: "counsel may proceed"},
	}}
	var waits []time.Duration
	svc := newTranscriptionService(transcriber, &waits)

	text, err := svc.Transcribe(context.Background(), strings.NewReader("audio-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "counsel may proceed", text)
	// Two non-terminal polls, each followed by the poll interval.
	assert.Equal(t, []time.Duration{DefaultPollInterval, DefaultPollInterval}, waits)
}

// Empty transcript text is a valid completed result.
func TestTranscribe_EmptyTextCompleted(t *testing.T) {
	transcriber := &mockTranscriber{states: []domain.Transcript{
		{ID: "job-1", Status: domain.TranscriptCompleted, Text: ""},
	}}
	var waits []time.Duration
	svc := newTranscriptionService(transcriber, &waits)

	text, err := svc.Transcribe(context.Background(), strings.NewReader("silence"))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestTranscribe_ProviderError(t *testing.T) {
	transcriber := &mockTranscriber{states: []domain.Transcript{
		{ID: "job-1", Status: domain.TranscriptError, ErrorMessage: "unsupported codec"},
	}}
	var waits []time.Duration
	svc := newTranscriptionService(transcriber, &waits)

	_, err := svc.Transcribe(context.Background(), strings.NewReader("audio"))

	assert.ErrorIs(t, err, domain.ErrTranscriptionFailed)
	assert.Contains(t, err.Error(), "unsupported codec")
}

func TestTranscribe_UploadFailureAborts(t *testing.T) {
	transcriber := &mockTranscriber{uploadErr: domain.ErrRetriesExhausted}
	var waits []time.Duration
	svc := newTranscriptionService(transcriber, &waits)

	_, err := svc.Transcribe(context.Background(), strings.NewReader("audio"))

	assert.ErrorIs(t, err, domain.ErrRetriesExhausted)
	assert.Equal(t, 0, transcriber.pollCalls)
}

func TestTranscribe_CancelledDuringPolling(t *testing.T) {
	transcriber := &mockTranscriber{states: []domain.Transcript{
		{ID: "job-1", Status: domain.TranscriptProcessing},
	}}
	ctx, cancel := context.WithCancel(context.Background())

	svc := NewTranscriptionService(transcriber)
	svc.SetSleep(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	})

	_, err := svc.Transcribe(ctx, strings.NewReader("audio"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTranscribe_CustomPollInterval(t *testing.T) {
	transcriber := &mockTranscriber{states: []domain.Transcript{
		{ID: "job-1", Status: domain.TranscriptQueued},
		{ID: "job-1", Status: domain.TranscriptCompleted, Text: "done"},
	}}
	var waits []time.Duration
	svc := newTranscriptionService(transcriber, &waits)
	svc.SetPollInterval(250 * time.Millisecond)

	_, err := svc.Transcribe(context.Background(), strings.NewReader("audio"))
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, waits)
}
