package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
)

var (
	researchLimit   int
	researchNews    bool
	researchCountry string
	researchJSON    bool
)

var researchCmd = &cobra.Command{
	Use:   "research [query]",
	Short: "Search and rank legal sources",
	Long: `Runs the retrieval pipeline for a one-off question: a web or news
search followed by relevance reranking. Results are printed with citations.`,
	Args: cobra.ExactArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().IntVarP(&researchLimit, "limit", "n", 5, "maximum number of results")
	researchCmd.Flags().BoolVar(&researchNews, "news", false, "search recent news instead of general sources")
	researchCmd.Flags().StringVar(&researchCountry, "country", "", "jurisdiction to scope the research to")
	researchCmd.Flags().BoolVar(&researchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	mode := domain.SearchModeWeb
	if researchNews {
		mode = domain.SearchModeNews
	}

	results, err := retrievalService.Retrieve(
		cmd.Context(), args[0], researchLimit, mode, researchCountry,
	)
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	if researchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, results[i].Candidate.Title, results[i].RelevanceScore)
		if results[i].Candidate.Content != "" {
			cmd.Printf("      %s\n", results[i].Candidate.Content)
		}
		cmd.Printf("      %s\n", results[i].Candidate.CitationURL)
		cmd.Println()
	}

	return nil
}
