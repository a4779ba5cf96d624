package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchMemoryTool defines the search_memory MCP tool.
var searchMemoryTool = mcp.NewTool("search_memory",
	mcp.WithDescription("Search the ingested knowledge base semantically. Returns the most relevant text chunks with their source documents."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 8, max 50)"),
	),
)

// ingestStatusTool defines the ingest_status MCP tool.
var ingestStatusTool = mcp.NewTool("ingest_status",
	mcp.WithDescription("Report the most recent ingestion run: when it ran, documents and chunks indexed, and per-source counts."),
)
