// Package mcp exposes the knowledge base to AI agents over the Model Context
// Protocol.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/elidoras/datacore/internal/db"
	"github.com/elidoras/datacore/internal/search"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes knowledge-base search tools.
type Server struct {
	searcher Searcher
	history  *db.DB
	mcp      *server.MCPServer
}

// Searcher answers search queries. *search.Service satisfies it.
type Searcher interface {
	Search(ctx context.Context, q string, k int) ([]search.Hit, error)
}

// NewServer creates a new MCP server with the given dependencies. history may
// be nil when no run database exists yet.
func NewServer(searcher Searcher, history *db.DB) *Server {
	s := &Server{
		searcher: searcher,
		history:  history,
	}

	s.mcp = server.NewMCPServer(
		"datacore",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchMemoryTool, s.handleSearchMemory)
	s.mcp.AddTool(ingestStatusTool, s.handleIngestStatus)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
