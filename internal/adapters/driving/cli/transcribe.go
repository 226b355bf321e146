package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [file]",
	Short: "Transcribe an audio file",
	Long: `Transcribe an audio file, such as a hearing recording or dictation.

The file is uploaded, a transcription job is queued, and the command polls
until the provider finishes. The transcript is printed to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	if transcriptionService == nil {
		return errors.New("transcription not configured: run 'lexdraft settings set-keys assemblyai'")
	}

	media, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening audio file: %w", err)
	}
	defer media.Close()

	text, err := transcriptionService.Transcribe(cmd.Context(), media)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	cmd.Println(text)
	return nil
}
