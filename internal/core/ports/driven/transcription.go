package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
)

// Transcriber talks to an asynchronous transcription provider.
//
// The provider protocol is upload, then submit, then poll. Each method is a
// single protocol step; implementations apply the key-rotation retry policy
// per step, so a rotation triggered while polling does not restart the
// upload. The transcription service owns the poll loop and its interval.
type Transcriber interface {
	// Upload streams the audio bytes to the provider and returns the
	// provider-hosted media URL.
	Upload(ctx context.Context, media io.Reader) (string, error)

	// Submit creates a transcription job for an uploaded media URL and
	// returns the job ID.
	Submit(ctx context.Context, audioURL string) (string, error)

	// Poll fetches the current job state.
	Poll(ctx context.Context, jobID string) (domain.Transcript, error)

	// Close releases resources.
	Close() error
}
