package domain

// TranscriptStatus is the provider-reported state of a transcription job.
type TranscriptStatus string

// Transcript statuses.
const (
	// TranscriptQueued means the job is waiting to be processed.
	TranscriptQueued TranscriptStatus = "queued"

	// TranscriptProcessing means the provider is working on the job.
	TranscriptProcessing TranscriptStatus = "processing"

	// TranscriptCompleted means the job finished; Text carries the result.
	TranscriptCompleted TranscriptStatus = "completed"

	// TranscriptError means the provider reported a terminal failure.
	TranscriptError TranscriptStatus = "error"
)

// Terminal returns true if the status will not change on further polling.
func (s TranscriptStatus) Terminal() bool {
	return s == TranscriptCompleted || s == TranscriptError
}

// Transcript is the state of an asynchronous transcription job.
type Transcript struct {
	// ID is the provider-assigned job identifier.
	ID string

	// Status is the current job state.
	Status TranscriptStatus

	// Text is the transcribed text, set once Status is completed.
	// May legitimately be empty for silent audio.
	Text string

	// ErrorMessage carries the provider's error when Status is error.
	ErrorMessage string
}
