package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driving"
)

// mockAssistant implements driving.AssistantService with a scripted reply.
type mockAssistant struct {
	deltas   []string
	result   *driving.TurnResult
	sendErr  error
	lastOpts driving.TurnOptions
	sends    int
}

func (m *mockAssistant) NewConversation(_ context.Context, title string) (*domain.Conversation, error) {
	return &domain.Conversation{ID: "c1", Title: title}, nil
}

func (m *mockAssistant) Send(
	_ context.Context, _ string, _ string, opts driving.TurnOptions, onDelta func(string),
) (*driving.TurnResult, error) {
	m.sends++
	m.lastOpts = opts
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	for _, d := range m.deltas {
		if onDelta != nil {
			onDelta(d)
		}
	}
	return m.result, nil
}

func (m *mockAssistant) History(_ context.Context, _ string) ([]domain.Message, error) {
	return nil, nil
}

func newTestApp(t *testing.T, assistant *mockAssistant) *App {
	t.Helper()
	app, err := NewApp(&Ports{Assistant: assistant})
	require.NoError(t, err)

	// Simulate startup: conversation created, terminal sized.
	model, _ := app.Update(convReadyMsg{conv: &domain.Conversation{ID: "c1"}})
	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return model.(*App)
}

// runTurn pumps stream messages through Update until the turn completes.
func runTurn(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		var model tea.Model
		model, cmd = app.Update(msg)
		*app = *model.(*App)
		if _, done := msg.(turnDoneMsg); done {
			return
		}
	}
}

func TestNewApp_RequiresAssistant(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingAssistantService)
}

func TestApp_ConversationCreatedOnStartup(t *testing.T) {
	app := newTestApp(t, &mockAssistant{})
	assert.Equal(t, "c1", app.ConversationID())
}

func TestApp_SubmitStreamsAndRecordsTurn(t *testing.T) {
	assistant := &mockAssistant{
		deltas: []string{"The limitation", "The limitation period is three years."},
		result: &driving.TurnResult{
			Reply: domain.Message{Role: domain.RoleAssistant, Content: "The limitation period is three years."},
		},
	}
	app := newTestApp(t, assistant)

	app.textarea.SetValue("How long is the limitation period?")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, app.Streaming())

	runTurn(t, app, cmd)

	assert.False(t, app.Streaming())
	require.Len(t, app.transcript, 1)
	assert.Equal(t, "How long is the limitation period?", app.transcript[0].user)
	assert.Equal(t, "The limitation period is three years.", app.transcript[0].assistant)
	assert.Empty(t, app.textarea.Value(), "input cleared after send")
}

func TestApp_DraftBadgeAndSourcesRendered(t *testing.T) {
	assistant := &mockAssistant{
		result: &driving.TurnResult{
			Reply:  domain.Message{Role: domain.RoleAssistant, Content: "Drafted."},
			Update: &domain.DocumentUpdate{Kind: domain.UpdateAppend, Payload: "clause"},
			Sources: []domain.RankedResult{{
				Candidate: domain.SearchCandidate{
					Title: "Smith v Jones", CitationURL: "https://example.com/smith",
				},
				RelevanceScore: 0.9,
			}},
		},
	}
	app := newTestApp(t, assistant)

	app.textarea.SetValue("draft it")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runTurn(t, app, cmd)

	require.Len(t, app.transcript, 1)
	assert.True(t, app.transcript[0].draftUpdated)

	rendered := app.renderTranscript()
	assert.Contains(t, rendered, "draft updated")
	assert.Contains(t, rendered, "Smith v Jones")
}

func TestApp_EmptyInputIgnored(t *testing.T) {
	assistant := &mockAssistant{}
	app := newTestApp(t, assistant)

	app.textarea.SetValue("   ")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, app.Streaming())
	assert.Equal(t, 0, assistant.sends)
}

func TestApp_TogglesForwardedToTurn(t *testing.T) {
	assistant := &mockAssistant{
		result: &driving.TurnResult{Reply: domain.Message{Content: "ok"}},
	}
	app := newTestApp(t, assistant)

	_, _ = app.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	_, _ = app.Update(tea.KeyMsg{Type: tea.KeyCtrlT})

	app.textarea.SetValue("q")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runTurn(t, app, cmd)

	assert.True(t, assistant.lastOpts.Research)
	assert.True(t, assistant.lastOpts.Thinking)
}

func TestApp_TurnErrorDisplayed(t *testing.T) {
	sendErr := errors.New("retries exhausted")
	app := newTestApp(t, &mockAssistant{sendErr: sendErr})

	app.textarea.SetValue("q")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runTurn(t, app, cmd)

	assert.False(t, app.Streaming())
	assert.ErrorIs(t, app.Err(), sendErr)
	assert.Contains(t, app.renderTranscript(), "retries exhausted")
	assert.Empty(t, app.transcript)
}

func TestApp_QuitKeys(t *testing.T) {
	app := newTestApp(t, &mockAssistant{})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
