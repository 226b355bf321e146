package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexdraft-cli/internal/logger"
)

// Ensure TranscriptionService implements the interface.
var _ driving.TranscriptionService = (*TranscriptionService)(nil)

// DefaultPollInterval is the wait between transcription status polls.
const DefaultPollInterval = 3 * time.Second

// TranscriptionService orchestrates the upload, submit, poll protocol
// against the transcription provider. Key-rotation retries happen inside
// the provider adapter per protocol step; this service owns the poll loop.
type TranscriptionService struct {
	transcriber  driven.Transcriber
	pollInterval time.Duration

	// sleep waits between polls. Injectable so tests run without timers.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewTranscriptionService creates a new transcription service.
func NewTranscriptionService(transcriber driven.Transcriber) *TranscriptionService {
	return &TranscriptionService{
		transcriber:  transcriber,
		pollInterval: DefaultPollInterval,
		sleep:        sleepContext,
	}
}

// SetPollInterval overrides the wait between status polls.
func (s *TranscriptionService) SetPollInterval(d time.Duration) {
	if d > 0 {
		s.pollInterval = d
	}
}

// SetSleep overrides the sleep function. Useful for testing.
func (s *TranscriptionService) SetSleep(sleep func(ctx context.Context, d time.Duration) error) {
	if sleep != nil {
		s.sleep = sleep
	}
}

// Transcribe uploads the audio, submits a job, and polls until the provider
// reports a terminal state. Cancelling the context stops the poll loop.
func (s *TranscriptionService) Transcribe(ctx context.Context, media io.Reader) (string, error) {
	logger.Section("Transcription")

	if s.transcriber == nil {
		return "", fmt.Errorf("transcribe: %w", domain.ErrProvider)
	}

	audioURL, err := s.transcriber.Upload(ctx, media)
	if err != nil {
		return "", fmt.Errorf("transcribe: upload: %w", err)
	}
	logger.Debug("Uploaded media: %s", audioURL)

	jobID, err := s.transcriber.Submit(ctx, audioURL)
	if err != nil {
		return "", fmt.Errorf("transcribe: submit: %w", err)
	}
	logger.Debug("Submitted job: %s", jobID)

	for {
		transcript, err := s.transcriber.Poll(ctx, jobID)
		if err != nil {
			return "", fmt.Errorf("transcribe: poll: %w", err)
		}
		logger.Debug("Job %s status: %s", jobID, transcript.Status)

		switch transcript.Status {
		case domain.TranscriptCompleted:
			// Empty text is a valid result for silent audio.
			return transcript.Text, nil
		case domain.TranscriptError:
			return "", fmt.Errorf("transcribe: %w: %s", domain.ErrTranscriptionFailed, transcript.ErrorMessage)
		}

		if err := s.sleep(ctx, s.pollInterval); err != nil {
			return "", fmt.Errorf("transcribe: %w", err)
		}
	}
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
