// Package domain defines the core business entities for lexdraft.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Conversation, Message: A chat session with the assistant
//   - Draft: The working legal document attached to a conversation
//   - DocumentUpdate: An instruction to mutate a draft, parsed from a response
//   - SearchCandidate, RankedResult: Retrieval pipeline intermediates
//   - KeyRing: Rotating API credentials for one external service
//   - Transcript: The state of an asynchronous transcription job
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
