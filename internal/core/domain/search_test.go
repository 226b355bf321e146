package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchMode_IsValid(t *testing.T) {
	assert.True(t, SearchModeWeb.IsValid())
	assert.True(t, SearchModeNews.IsValid())
	assert.False(t, SearchMode("images").IsValid())
}

func TestTranscriptStatus_Terminal(t *testing.T) {
	assert.False(t, TranscriptQueued.Terminal())
	assert.False(t, TranscriptProcessing.Terminal())
	assert.True(t, TranscriptCompleted.Terminal())
	assert.True(t, TranscriptError.Terminal())
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAssistant.IsValid())
	assert.True(t, RoleSystem.IsValid())
	assert.False(t, Role("moderator").IsValid())
}
