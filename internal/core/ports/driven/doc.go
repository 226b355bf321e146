// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ChatService: Streaming chat completions (the assistant's voice)
//   - ConversationStore: Conversation and message persistence
//   - DraftStore: Draft document persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SearchProvider: First-stage web/news search. Without it, research
//     mode is disabled and the assistant answers from the model alone.
//   - Reranker: Second-stage relevance reranking. Required whenever
//     SearchProvider is configured.
//   - Transcriber: Audio transcription. Without it, the transcribe
//     command is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
