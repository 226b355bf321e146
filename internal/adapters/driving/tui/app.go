// Package tui provides the interactive chat interface for lexdraft.
// It follows the Elm architecture via Bubbletea: a single chat view with a
// scrolling transcript, a message input, and streaming assistant replies.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lexdraft-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driving"
)

// inputHeight is the height of the message input area in rows.
const inputHeight = 3

// turnEntry is one completed exchange in the transcript.
type turnEntry struct {
	user         string
	assistant    string
	sources      []domain.RankedResult
	draftUpdated bool
}

// convReadyMsg is sent once the backing conversation exists.
type convReadyMsg struct {
	conv *domain.Conversation
	err  error
}

// streamDeltaMsg carries the visible assistant text accumulated so far.
type streamDeltaMsg string

// turnDoneMsg is sent when a turn finishes.
type turnDoneMsg struct {
	result *driving.TurnResult
	err    error
}

// App is the chat TUI application. It implements tea.Model.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	viewport viewport.Model
	textarea textarea.Model

	conversationID string
	transcript     []turnEntry

	// streaming state for the in-flight turn
	streaming  bool
	pendingIn  string
	streamText string
	deltaCh    chan string
	doneCh     chan turnDoneMsg

	// per-turn toggles
	research bool
	thinking bool

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat TUI with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	ta := textarea.New()
	ta.Placeholder = "Ask a question or describe the document to draft..."
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	ta.Focus()

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   styles.DefaultStyles(),
		textarea: ta,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model. It creates the backing conversation.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, func() tea.Msg {
		conv, err := a.ports.Assistant.NewConversation(a.ctx, "")
		return convReadyMsg{conv: conv, err: err}
	})
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		a.refreshViewport()
		a.ready = true
		return a, nil

	case convReadyMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, tea.Quit
		}
		a.conversationID = msg.conv.ID
		return a, nil

	case streamDeltaMsg:
		a.streamText = string(msg)
		a.refreshViewport()
		return a, a.waitForStream()

	case turnDoneMsg:
		a.streaming = false
		if msg.err != nil {
			a.err = msg.err
			a.streamText = ""
			a.refreshViewport()
			return a, nil
		}
		entry := turnEntry{
			user:         a.pendingIn,
			assistant:    msg.result.Reply.Content,
			sources:      msg.result.Sources,
			draftUpdated: msg.result.Update != nil,
		}
		a.transcript = append(a.transcript, entry)
		a.streamText = ""
		a.pendingIn = ""
		a.refreshViewport()
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyCtrlR:
			a.research = !a.research
			return a, nil
		case tea.KeyCtrlT:
			a.thinking = !a.thinking
			return a, nil
		case tea.KeyEnter:
			return a, a.submit()
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// submit starts a turn for the current input.
func (a *App) submit() tea.Cmd {
	input := strings.TrimSpace(a.textarea.Value())
	if input == "" || a.streaming || a.conversationID == "" {
		return nil
	}

	a.err = nil
	a.pendingIn = input
	a.streaming = true
	a.streamText = ""
	a.textarea.Reset()
	a.refreshViewport()

	a.deltaCh = make(chan string, 64)
	a.doneCh = make(chan turnDoneMsg, 1)
	deltaCh, doneCh := a.deltaCh, a.doneCh

	opts := driving.TurnOptions{
		Research: a.research,
		Mode:     domain.SearchModeWeb,
		Thinking: a.thinking,
	}

	go func() {
		result, err := a.ports.Assistant.Send(a.ctx, a.conversationID, input, opts,
			func(chatText string) {
				// Deltas are cumulative, dropping one under backpressure
				// only delays the next repaint.
				select {
				case deltaCh <- chatText:
				default:
				}
			})
		doneCh <- turnDoneMsg{result: result, err: err}
	}()

	return a.waitForStream()
}

// waitForStream returns a command that delivers the next stream event.
func (a *App) waitForStream() tea.Cmd {
	deltaCh, doneCh := a.deltaCh, a.doneCh
	return func() tea.Msg {
		select {
		case text := <-deltaCh:
			return streamDeltaMsg(text)
		case done := <-doneCh:
			return done
		}
	}
}

// layout sizes the viewport and input to the terminal.
func (a *App) layout() {
	a.textarea.SetWidth(a.width - 4)
	vpHeight := a.height - inputHeight - 2
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !a.ready {
		a.viewport = viewport.New(a.width, vpHeight)
	} else {
		a.viewport.Width = a.width
		a.viewport.Height = vpHeight
	}
}

// refreshViewport rebuilds the transcript content and scrolls to the bottom.
func (a *App) refreshViewport() {
	a.viewport.SetContent(a.renderTranscript())
	a.viewport.GotoBottom()
}

// renderTranscript renders completed turns plus any in-flight reply.
func (a *App) renderTranscript() string {
	var b strings.Builder

	for _, entry := range a.transcript {
		a.renderTurn(&b, entry)
	}

	if a.streaming {
		b.WriteString(a.styles.UserLabel.Render("You"))
		b.WriteString("\n" + a.pendingIn + "\n\n")
		b.WriteString(a.styles.AssistantLabel.Render("lexdraft"))
		b.WriteString("\n" + a.streamText + "\n")
	}

	if a.err != nil {
		b.WriteString("\n" + a.styles.Error.Render("Error: "+a.err.Error()) + "\n")
	}

	return b.String()
}

func (a *App) renderTurn(b *strings.Builder, entry turnEntry) {
	b.WriteString(a.styles.UserLabel.Render("You"))
	b.WriteString("\n" + entry.user + "\n\n")

	b.WriteString(a.styles.AssistantLabel.Render("lexdraft"))
	b.WriteString("\n" + entry.assistant + "\n")

	if entry.draftUpdated {
		b.WriteString(a.styles.DraftBadge.Render("✓ draft updated") + "\n")
	}
	for i, src := range entry.sources {
		line := fmt.Sprintf("[%d] %s (%s)", i+1, src.Candidate.Title, src.Candidate.CitationURL)
		b.WriteString(a.styles.Source.Render(line) + "\n")
	}
	b.WriteString("\n")
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var status []string
	if a.research {
		status = append(status, "research on")
	}
	if a.thinking {
		status = append(status, "thinking on")
	}
	help := "enter send · ctrl+r research · ctrl+t thinking · esc quit"
	if len(status) > 0 {
		help = strings.Join(status, " · ") + " · " + help
	}

	return a.viewport.View() + "\n" +
		a.styles.InputField.Render(a.textarea.View()) + "\n" +
		a.styles.Help.Render(help)
}

// Streaming reports whether a turn is in flight.
func (a *App) Streaming() bool {
	return a.streaming
}

// ConversationID returns the backing conversation ID.
func (a *App) ConversationID() string {
	return a.conversationID
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}
