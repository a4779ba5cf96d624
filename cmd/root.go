package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "datacore",
	Short: "Personal knowledge base with hybrid semantic search",
	Long: `Datacore ingests documents from local folders, repositories, mail and
cloud drives into a vector index, and answers natural language queries
over it. Search fuses semantic similarity with lexical matching, and the
index is available over HTTP and MCP.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Credentials may live in a local .env; a missing file is fine.
		_ = godotenv.Load()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".datacore.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
