package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/elidoras/datacore/internal/db"
	"github.com/elidoras/datacore/internal/search"
)

// mockSearcher serves canned hits and records the last call.
type mockSearcher struct {
	hits  []search.Hit
	err   error
	lastQ string
	lastK int
}

func (m *mockSearcher) Search(_ context.Context, q string, k int) ([]search.Hit, error) {
	m.lastQ = q
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("content is not text: %T", result.Content[0])
	}
	return tc.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"search_memory", searchMemoryTool, "search_memory"},
		{"ingest_status", ingestStatusTool, "ingest_status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	searcher := &mockSearcher{}
	srv := NewServer(searcher, nil)

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.searcher != searcher {
		t.Error("searcher not set correctly")
	}
}

func TestHandleSearchMemory(t *testing.T) {
	ctx := context.Background()

	t.Run("basic search", func(t *testing.T) {
		searcher := &mockSearcher{hits: []search.Hit{
			{Score: 0.92, Source: "notes/alpha.md", Text: "alpha content"},
		}}
		srv := NewServer(searcher, nil)

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "alpha"}

		result, err := srv.handleSearchMemory(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := textContent(t, result)
		if !strings.Contains(text, "notes/alpha.md") || !strings.Contains(text, "alpha content") {
			t.Errorf("result text missing source or chunk: %s", text)
		}
		if searcher.lastK != 8 {
			t.Errorf("default limit = %d, want 8", searcher.lastK)
		}
	})

	t.Run("limit clamped", func(t *testing.T) {
		searcher := &mockSearcher{hits: []search.Hit{{Score: 1, Text: "x"}}}
		srv := NewServer(searcher, nil)

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "x", "limit": 500}

		if _, err := srv.handleSearchMemory(ctx, req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if searcher.lastK != 50 {
			t.Errorf("limit = %d, want clamp to 50", searcher.lastK)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		srv := NewServer(&mockSearcher{}, nil)

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearchMemory(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})

	t.Run("no results", func(t *testing.T) {
		srv := NewServer(&mockSearcher{}, nil)

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "anything"}

		result, err := srv.handleSearchMemory(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if !strings.Contains(textContent(t, result), "No results") {
			t.Error("expected a no-results message")
		}
	})

	t.Run("search failure", func(t *testing.T) {
		srv := NewServer(&mockSearcher{err: errors.New("store offline")}, nil)

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "anything"}

		result, err := srv.handleSearchMemory(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error when search fails")
		}
	})
}

func TestHandleIngestStatus(t *testing.T) {
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	t.Run("no history database", func(t *testing.T) {
		srv := NewServer(&mockSearcher{}, nil)

		result, err := srv.handleIngestStatus(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
	})

	t.Run("empty history", func(t *testing.T) {
		database, err := db.OpenMemory()
		if err != nil {
			t.Fatalf("OpenMemory: %v", err)
		}
		defer database.Close()

		srv := NewServer(&mockSearcher{}, database)
		result, err := srv.handleIngestStatus(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(textContent(t, result), "No ingestion run") {
			t.Error("expected a no-run message")
		}
	})

	t.Run("with recorded run", func(t *testing.T) {
		database, err := db.OpenMemory()
		if err != nil {
			t.Fatalf("OpenMemory: %v", err)
		}
		defer database.Close()

		run := db.Run{
			ID:        "run-1",
			StartedAt: time.Now().UTC(),
			Duration:  2 * time.Second,
			Sources:   1,
			Documents: 5,
			Chunks:    12,
			PerSource: []db.RunSource{{Source: "fs:data/raw", Documents: 5, Chunks: 12}},
		}
		if err := database.InsertRun(run); err != nil {
			t.Fatalf("InsertRun: %v", err)
		}

		srv := NewServer(&mockSearcher{}, database)
		result, err := srv.handleIngestStatus(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := textContent(t, result)
		if !strings.Contains(text, "run-1") || !strings.Contains(text, "fs:data/raw") {
			t.Errorf("status text missing run details: %s", text)
		}
	})
}
