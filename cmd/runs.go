package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent ingestion runs",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().Int("limit", 10, "number of runs to show")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Join(cfg.StoreDir, "runs.db")); err != nil {
		fmt.Println("No ingestion history yet. Run `datacore ingest` first.")
		return nil
	}

	history, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer history.Close()

	runs, err := history.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No ingestion history yet. Run `datacore ingest` first.")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %s  %d docs, %d chunks, %d skipped",
			run.StartedAt.Local().Format(time.DateTime), run.ID[:8],
			run.Documents, run.Chunks, run.Skipped)
		if run.Errors > 0 {
			fmt.Printf(", %d errors", run.Errors)
		}
		fmt.Println()
	}
	return nil
}
