package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/elidoras/datacore/internal/config"
	"github.com/elidoras/datacore/internal/connectors"
	"github.com/elidoras/datacore/internal/db"
	"github.com/elidoras/datacore/internal/embeddings"
	"github.com/elidoras/datacore/internal/search"
	"github.com/elidoras/datacore/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `datacore init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildEmbedder creates the embedding backend from config. The auto backend
// picks OpenAI when a key is present and the local hash embedder otherwise;
// selecting OpenAI explicitly without a key is a hard error.
func buildEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")

	switch cfg.Embedding.Backend {
	case config.BackendOpenAI:
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.Embedding.Model))
	case config.BackendLocal:
		return embeddings.NewLocalEmbedder(embeddings.LocalDimensions), nil
	default:
		if apiKey != "" {
			return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.Embedding.Model))
		}
		return embeddings.NewLocalEmbedder(embeddings.LocalDimensions), nil
	}
}

// openStore creates the vector store and loads a previously persisted
// snapshot when one exists.
func openStore(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder) (vectordb.Store, error) {
	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}

	if _, statErr := os.Stat(filepath.Join(cfg.StoreDir, vectordb.SnapshotFile)); statErr == nil {
		if err := store.Load(ctx, cfg.StoreDir); err != nil {
			return nil, fmt.Errorf("loading vector store from %s: %w", cfg.StoreDir, err)
		}
	}
	return store, nil
}

// buildConnectors assembles the enabled source connectors from config.
func buildConnectors(cfg *config.Config) []connectors.Connector {
	var conns []connectors.Connector

	for _, src := range cfg.Sources.FS {
		conns = append(conns, connectors.NewFilesystem(src.Path, src.Patterns))
	}

	if cfg.Sources.GitHub.Enable {
		conns = append(conns, connectors.NewGitHub(connectors.GitHubConfig{
			Repo:  cfg.Sources.GitHub.Repo,
			Globs: cfg.Sources.GitHub.Globs,
			Token: os.Getenv("GITHUB_TOKEN"),
		}))
	}

	if cfg.Sources.GDrive.Enable {
		conns = append(conns, connectors.NewGDrive(connectors.GDriveConfig{
			CredentialsFile: cfg.Sources.GDrive.CredentialsFile,
			Include:         cfg.Sources.GDrive.Include,
			MaxFiles:        cfg.Sources.GDrive.MaxFiles,
		}))
	}

	if cfg.Sources.Gmail.Enable {
		conns = append(conns, connectors.NewGmail(connectors.GmailConfig{
			TokenFile:  cfg.Sources.Gmail.TokenFile,
			Query:      cfg.Sources.Gmail.Query,
			MaxResults: cfg.Sources.Gmail.MaxResults,
		}))
	}

	return conns
}

// buildSearchService wires the search service from config.
func buildSearchService(cfg *config.Config, store vectordb.Store, embedder embeddings.Embedder) *search.Service {
	return search.NewService(store, embedder, nil, search.Options{
		Rerank:              cfg.Rerank.Enable,
		Alpha:               cfg.Rerank.Alpha,
		CandidateMultiplier: cfg.Rerank.CandidateMultiplier,
	})
}

// openHistory opens the run-history database inside the store directory.
func openHistory(cfg *config.Config) (*db.DB, error) {
	return db.Open(filepath.Join(cfg.StoreDir, "runs.db"))
}
