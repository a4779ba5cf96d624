package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/elidoras/datacore/internal/db"
	"github.com/elidoras/datacore/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the knowledge base to AI agents over MCP (stdio)",
	Long: `Starts a Model Context Protocol server on stdio exposing search_memory
and ingest_status tools. Point your AI agent at this command to give it
access to the knowledge base.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

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

	// Stdout carries protocol messages, so any status goes to stderr.
	fmt.Fprintf(os.Stderr, "datacore mcp: serving %d chunk(s)\n", store.Count())

	var history *db.DB
	if _, err := os.Stat(filepath.Join(cfg.StoreDir, "runs.db")); err == nil {
		history, err = openHistory(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "datacore mcp: run history unavailable: %v\n", err)
		} else {
			defer history.Close()
		}
	}

	srv := mcp.NewServer(buildSearchService(cfg, store, embedder), history)
	return srv.Serve()
}
