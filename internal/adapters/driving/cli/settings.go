package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// providerNames are the providers that accept API key rings.
var providerNames = []string{"openai", "langsearch", "jina", "assemblyai"}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure provider API keys and other options.

Each provider accepts multiple API keys. When a provider rate-limits a key,
the next key in the ring is tried before giving up.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetKeysCmd = &cobra.Command{
	Use:   "set-keys [provider]",
	Short: "Set the API key ring for a provider",
	Long: `Set the API keys for a provider. Keys are entered one per line with
hidden input; finish with an empty line. The new ring replaces the old one.

Providers: openai, langsearch, jina, assemblyai`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsSetKeys,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a single configuration value by dotted key, for example:

  lexdraft settings set providers.openai.base_url https://api.example.com/v1
  lexdraft settings set providers.openai.fast_model gpt-4o-mini`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetKeysCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	for _, name := range providerNames {
		cmd.Printf("[%s]\n", name)

		keys := configStore.GetStringSlice("providers." + name + ".keys")
		if len(keys) == 0 {
			cmd.Println("  Keys: (not set)")
		} else {
			for i, key := range keys {
				cmd.Printf("  Key %d: %s\n", i+1, maskAPIKey(key))
			}
		}

		if baseURL := configStore.GetString("providers." + name + ".base_url"); baseURL != "" {
			cmd.Printf("  Base URL: %s\n", baseURL)
		}
		cmd.Println()
	}

	cmd.Printf("Config file: %s\n", configStore.Path())
	cmd.Printf("Database: %s\n", store.Path())
	return nil
}

func runSettingsSetKeys(cmd *cobra.Command, args []string) error {
	provider := args[0]
	if !validProvider(provider) {
		return fmt.Errorf("unknown provider %q (expected one of %v)", provider, providerNames)
	}

	cmd.Printf("Enter API keys for %s, one per line. Finish with an empty line.\n", provider)

	var keys []string
	for {
		cmd.Printf("Key %d: ", len(keys)+1)
		entered, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.Println()
		if err != nil {
			return fmt.Errorf("reading key: %w", err)
		}
		if len(entered) == 0 {
			break
		}
		keys = append(keys, string(entered))
	}

	if len(keys) == 0 {
		return fmt.Errorf("no keys entered")
	}

	if err := configStore.Set("providers."+provider+".keys", keys); err != nil {
		return fmt.Errorf("saving keys: %w", err)
	}

	cmd.Printf("Saved %d key(s) for %s.\n", len(keys), provider)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := configStore.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("saving setting: %w", err)
	}
	cmd.Printf("Set %s.\n", args[0])
	return nil
}

func validProvider(name string) bool {
	for _, p := range providerNames {
		if p == name {
			return true
		}
	}
	return false
}
