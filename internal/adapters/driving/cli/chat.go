package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexdraft-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive research and drafting session",
	Long: `Start the interactive chat interface.

Ask legal questions, request document drafts, and revise them in
conversation. The draft evolves as the assistant appends to or replaces it.

Controls:
  Enter   - Send message
  Ctrl+R  - Toggle research (search and rank sources before answering)
  Ctrl+T  - Toggle extended reasoning
  Esc     - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Panic recovery keeps the terminal usable and shows the stack
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if assistantService == nil {
		return errors.New("chat model not configured: run 'lexdraft settings set-keys openai'")
	}

	// Pick up provider key changes written while the session runs.
	watchCtx, cancelWatch := context.WithCancel(cmd.Context())
	defer cancelWatch()
	go configStore.Watch(watchCtx, reloadRetrieval) //nolint:errcheck

	app, err := tui.NewApp(&tui.Ports{Assistant: assistantService})
	if err != nil {
		return fmt.Errorf("failed to create chat interface: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface error: %w", err)
	}

	return app.Err()
}
