// Package streamtag separates an assistant response stream into chat-visible
// text and at most one document-mutation command.
//
// Responses may embed one command block delimited by
// <DOCUMENT_REPLACE>...</DOCUMENT_REPLACE> or
// <DOCUMENT_WRITE>...</DOCUMENT_WRITE>. Content arrives incrementally, so
// Parse is called once per received chunk with the entire buffer accumulated
// so far. Parse is pure: the same buffer always produces the same result,
// and a growing buffer never un-renders chat text it already produced.
//
// Matching is an explicit scan over the buffer rather than regular
// expressions, so the non-greedy, newline-spanning semantics hold without
// depending on a regex dialect. Tags are case sensitive.
package streamtag

import (
	"strings"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
)

// Tag vocabulary. This is the one piece of wire format the assistant
// defines itself, layered on top of free-text completion output.
const (
	replaceOpen  = "<DOCUMENT_REPLACE>"
	replaceClose = "</DOCUMENT_REPLACE>"
	writeOpen    = "<DOCUMENT_WRITE>"
	writeClose   = "</DOCUMENT_WRITE>"
)

// Result is the outcome of parsing one accumulated buffer.
type Result struct {
	// ChatText is the human-readable text to render in the chat pane,
	// trimmed, with command spans and partially streamed tags removed.
	ChatText string

	// Command is the extracted document mutation, or nil while no complete
	// command block has arrived.
	Command *domain.DocumentUpdate
}

// Parse splits the accumulated response buffer.
//
// A complete replace block takes priority over a write block; the first
// complete block of the winning kind is consumed. Anything from a remaining
// opening tag onward is suppressed from the chat text so raw markup never
// reaches the UI while the model is mid-stream on a command.
func Parse(buffer string) Result {
	working := buffer
	var command *domain.DocumentUpdate

	if inner, rest, ok := extractSpan(working, replaceOpen, replaceClose); ok {
		command = &domain.DocumentUpdate{
			Kind:    domain.UpdateReplace,
			Payload: strings.TrimSpace(inner),
		}
		working = rest
	} else if inner, rest, ok := extractSpan(working, writeOpen, writeClose); ok {
		command = &domain.DocumentUpdate{
			Kind:    domain.UpdateAppend,
			Payload: strings.TrimSpace(inner),
		}
		working = rest
	}

	working = suppressFromOpenTag(working)
	working = suppressPartialTag(working)

	return Result{
		ChatText: strings.TrimSpace(working),
		Command:  command,
	}
}

// extractSpan finds the first complete open...close span. The span body is
// everything up to the first close tag after the open tag, so matching is
// non-greedy and newlines inside the body need no special handling. rest is
// the input with the entire tagged span removed.
func extractSpan(s, open, close string) (inner, rest string, ok bool) {
	start := strings.Index(s, open)
	if start < 0 {
		return "", "", false
	}

	bodyStart := start + len(open)
	bodyLen := strings.Index(s[bodyStart:], close)
	if bodyLen < 0 {
		return "", "", false
	}

	inner = s[bodyStart : bodyStart+bodyLen]
	rest = s[:start] + s[bodyStart+bodyLen+len(close):]
	return inner, rest, true
}

// suppressFromOpenTag cuts the text at the earliest remaining opening tag.
// After command extraction any tag still present is either mid-stream (no
// close received yet) or a surplus block that lost the replace-over-write
// tie-break; neither may leak into the chat pane.
func suppressFromOpenTag(s string) string {
	cut := len(s)
	for _, open := range []string{replaceOpen, writeOpen} {
		if i := strings.Index(s, open); i >= 0 && i < cut {
			cut = i
		}
	}
	return s[:cut]
}

// suppressPartialTag hides a trailing fragment that could still grow into an
// opening tag, e.g. a buffer ending in "<DOCU". Without this the fragment
// would render for one frame and vanish when the rest of the tag arrives.
func suppressPartialTag(s string) string {
	last := strings.LastIndexByte(s, '<')
	if last < 0 {
		return s
	}

	tail := s[last:]
	if strings.HasPrefix(replaceOpen, tail) || strings.HasPrefix(writeOpen, tail) {
		return s[:last]
	}
	return s
}
