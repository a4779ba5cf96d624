package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/elidoras/datacore/internal/chunk"
	"github.com/elidoras/datacore/internal/config"
	"github.com/elidoras/datacore/internal/connectors"
	"github.com/elidoras/datacore/internal/db"
	"github.com/elidoras/datacore/internal/ingest"
	"github.com/elidoras/datacore/internal/progress"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest configured sources into the vector index",
	Long: `Reads every enabled source, extracts and chunks the documents, embeds
the chunks and upserts them into the vector store. Unchanged documents
are skipped; use --force to re-embed everything.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().Bool("force", false, "re-ingest documents even when unchanged")
	ingestCmd.Flags().Bool("reconcile", false, "remove index entries whose local source vanished")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	force, _ := cmd.Flags().GetBool("force")
	reconcile, _ := cmd.Flags().GetBool("reconcile")

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

	tokenizer, err := chunk.NewTokenizer("cl100k_base")
	if err != nil {
		return fmt.Errorf("creating tokenizer: %w", err)
	}

	pipeline := ingest.NewPipeline(ingest.Params{
		Connectors: buildConnectors(cfg),
		Blocklist:  connectors.Blocklist(cfg.Blocklist),
		Chunker:    chunk.NewChunker(tokenizer, cfg.ChunkTokens, cfg.ChunkOverlap),
		Embedder:   embedder,
		Store:      store,
		Project:    cfg.Project,
		DataRoot:   cfg.DataRoot,
		ScrubPII:   cfg.ScrubPII,
		StoreDir:   cfg.StoreDir,
	})

	reporter := progress.NewReporter()
	pipeline.SetProgressFunc(func(processed, total int, current string) {
		if processed == 1 {
			reporter.Start(total)
		}
		reporter.Update(processed, current)
		if processed == total {
			reporter.Finish()
		}
	})

	result, err := pipeline.Run(ctx, ingest.Options{Force: force, Reconcile: reconcile})
	if err != nil {
		return err
	}

	recordRun(cfg, result)
	printRunSummary(result)
	return nil
}

// recordRun appends the run to the history database. History is best effort
// and never fails the ingest.
func recordRun(cfg *config.Config, result *ingest.Result) {
	history, err := openHistory(cfg)
	if err != nil {
		fmt.Printf("Warning: run history unavailable: %v\n", err)
		return
	}
	defer history.Close()

	run := db.Run{
		ID:          result.RunID,
		StartedAt:   time.Now().UTC().Add(-result.Duration),
		Duration:    result.Duration,
		Sources:     result.Sources,
		Documents:   result.Documents,
		Chunks:      result.Chunks,
		Skipped:     result.Skipped,
		Blocked:     result.Blocked,
		Reconciled:  result.Reconciled,
		Errors:      len(result.Errors),
		ErrorDetail: joinErrors(result.Errors),
	}
	for source, stat := range result.SourceStats {
		run.PerSource = append(run.PerSource, db.RunSource{
			Source:    source,
			Documents: stat.Documents,
			Chunks:    stat.Chunks,
			Errors:    stat.Errors,
		})
	}

	if err := history.InsertRun(run); err != nil {
		fmt.Printf("Warning: recording run history failed: %v\n", err)
	}
}

func printRunSummary(result *ingest.Result) {
	fmt.Printf("Ingested %d document(s) as %d chunk(s) from %d source(s) in %s\n",
		result.Documents, result.Chunks, result.Sources, result.Duration.Round(time.Millisecond))
	if result.Skipped > 0 {
		fmt.Printf("  skipped %d unchanged document(s)\n", result.Skipped)
	}
	if result.Blocked > 0 {
		fmt.Printf("  blocked %d document(s)\n", result.Blocked)
	}
	if result.Reconciled > 0 {
		fmt.Printf("  removed %d vanished source(s)\n", result.Reconciled)
	}
	for _, err := range result.Errors {
		fmt.Printf("  error: %v\n", err)
	}
}

func joinErrors(errs []error) string {
	if len(errs) == 0 {
		return ""
	}
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "\n")
}
