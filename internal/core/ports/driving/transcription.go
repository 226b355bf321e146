package driving

import (
	"context"
	"io"
)

// TranscriptionService turns audio into text via the configured provider.
type TranscriptionService interface {
	// Transcribe uploads the audio, submits a job, and polls until the
	// provider reports a terminal state. Returns the transcribed text,
	// which may legitimately be empty for silent audio.
	Transcribe(ctx context.Context, media io.Reader) (string, error)
}
