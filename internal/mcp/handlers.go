package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/elidoras/datacore/internal/search"
)

// handleSearchMemory performs semantic search over the knowledge base.
func (s *Server) handleSearchMemory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 8)
	if limit <= 0 {
		limit = 8
	}
	if limit > 50 {
		limit = 50
	}

	hits, err := s.searcher.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(hits) == 0 {
		return mcp.NewToolResultText("No results found. The knowledge base may be empty; run `datacore ingest` to index your sources."), nil
	}

	return mcp.NewToolResultText(formatHits(hits)), nil
}

// handleIngestStatus reports the most recent ingestion run.
func (s *Server) handleIngestStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultText("No ingestion history available. Run `datacore ingest` first."), nil
	}

	run, err := s.history.LastRun()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading run history failed: %v", err)), nil
	}
	if run == nil {
		return mcp.NewToolResultText("No ingestion run recorded yet. Run `datacore ingest` first."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Last run %s at %s (took %s)\n", run.ID, run.StartedAt.Format("2006-01-02 15:04:05 MST"), run.Duration)
	fmt.Fprintf(&sb, "Documents: %d indexed, %d skipped unchanged, %d blocked\n", run.Documents, run.Skipped, run.Blocked)
	fmt.Fprintf(&sb, "Chunks: %d\n", run.Chunks)
	if run.Reconciled > 0 {
		fmt.Fprintf(&sb, "Reconciled vanished sources: %d\n", run.Reconciled)
	}
	if run.Errors > 0 {
		fmt.Fprintf(&sb, "Errors: %d\n%s\n", run.Errors, run.ErrorDetail)
	}
	if len(run.PerSource) > 0 {
		sb.WriteString("\nPer source:\n")
		for _, src := range run.PerSource {
			fmt.Fprintf(&sb, "  %s: %d documents, %d chunks", src.Source, src.Documents, src.Chunks)
			if src.Errors > 0 {
				fmt.Fprintf(&sb, ", %d errors", src.Errors)
			}
			sb.WriteString("\n")
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// formatHits converts hits into a text format optimized for AI agent
// consumption.
func formatHits(hits []search.Hit) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s):\n", len(hits))

	for i, h := range hits {
		fmt.Fprintf(&sb, "\n--- Result %d ---\n", i+1)
		if h.Source != "" {
			fmt.Fprintf(&sb, "Source: %s\n", h.Source)
		}
		fmt.Fprintf(&sb, "Score: %.3f\n\n", h.Score)
		sb.WriteString(h.Text)
		sb.WriteString("\n")
	}

	return sb.String()
}
