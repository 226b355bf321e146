// Package mcp provides an MCP (Model Context Protocol) server adapter for
// lexdraft. It lets AI assistants run legal research and read local
// conversations and drafts.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
