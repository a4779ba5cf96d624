package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Search the knowledge base with a natural language query",
	Long:  `Embeds the query, searches the vector index and prints the best matching chunks with their source documents.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().IntP("limit", "k", 8, "maximum number of results")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	queryText := args[0]

	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	store, err := openStore(ctx, cfg, embedder)
	if err != nil {
		return err
	}
	if store.Count() == 0 {
		fmt.Println("The index is empty. Run `datacore ingest` first.")
		return nil
	}

	svc := buildSearchService(cfg, store, embedder)
	hits, err := svc.Search(ctx, queryText, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	fmt.Printf("Found %d result(s):\n\n", len(hits))
	for i, h := range hits {
		source := h.Source
		if source == "" {
			source = "(unknown source)"
		}
		fmt.Printf("  %d. [%.3f] %s\n", i+1, h.Score, source)
		fmt.Printf("     %s\n\n", truncate(h.Text, 160))
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
