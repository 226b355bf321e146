// Package cli provides the cobra command tree for lexdraft. Commands wire
// configuration, storage and provider adapters into the core services.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexdraft-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lexdraft-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/lexdraft-cli/internal/adapters/driven/rerank/jina"
	"github.com/custodia-labs/lexdraft-cli/internal/adapters/driven/search/langsearch"
	"github.com/custodia-labs/lexdraft-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lexdraft-cli/internal/adapters/driven/transcription/assemblyai"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexdraft-cli/internal/core/services"
	"github.com/custodia-labs/lexdraft-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Services wired by initServices and shared by the commands.
var (
	configStore          *file.ConfigStore
	store                *sqlite.Store
	assistantService     driving.AssistantService
	retrievalService     *reloadableRetrieval
	transcriptionService driving.TranscriptionService
)

var rootCmd = &cobra.Command{
	Use:   "lexdraft",
	Short: "Legal research and drafting assistant",
	Long: `lexdraft is a terminal assistant for legal research and document drafting.

It answers legal questions with ranked, cited sources, drafts and revises
documents inside a conversation, and transcribes hearing recordings.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initServices()
	},
	RunE: runChat,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices builds the adapter stack from configuration. Providers
// without configured keys are left nil; commands that need them report
// how to configure them.
func initServices() error {
	if configStore != nil {
		return nil // already initialised
	}

	var err error
	configStore, err = file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	store, err = sqlite.NewStore(configStore.GetString("storage.dir"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	retrievalService = &reloadableRetrieval{}
	if svc, err := buildRetrieval(); err == nil {
		retrievalService.Set(svc)
	} else {
		logger.Debug("Retrieval not configured: %v", err)
	}

	if transcriber, err := assemblyai.New(assemblyai.Config{
		Keys:    configStore.GetStringSlice("providers.assemblyai.keys"),
		BaseURL: configStore.GetString("providers.assemblyai.base_url"),
	}); err == nil {
		transcriptionService = services.NewTranscriptionService(transcriber)
	} else {
		logger.Debug("Transcription not configured: %v", err)
	}

	chat, err := openai.New(openai.Config{
		Keys:          configStore.GetStringSlice("providers.openai.keys"),
		BaseURL:       configStore.GetString("providers.openai.base_url"),
		FastModel:     configStore.GetString("providers.openai.fast_model"),
		ThinkingModel: configStore.GetString("providers.openai.thinking_model"),
	})
	if err != nil {
		logger.Debug("Chat not configured: %v", err)
		return nil
	}

	assistantService = services.NewAssistantService(
		chat, retrievalService, store.ConversationStore(), store.DraftStore(),
	)
	return nil
}

// buildRetrieval constructs the search plus rerank pipeline from the
// current configuration.
func buildRetrieval() (driving.RetrievalService, error) {
	search, err := langsearch.New(langsearch.Config{
		Keys:    configStore.GetStringSlice("providers.langsearch.keys"),
		BaseURL: configStore.GetString("providers.langsearch.base_url"),
	})
	if err != nil {
		return nil, err
	}

	reranker, err := jina.New(jina.Config{
		Keys:    configStore.GetStringSlice("providers.jina.keys"),
		BaseURL: configStore.GetString("providers.jina.base_url"),
		Model:   configStore.GetString("providers.jina.model"),
	})
	if err != nil {
		return nil, err
	}

	return services.NewRetrievalService(search, reranker), nil
}

// maskAPIKey hides all but the last four characters of a key.
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
