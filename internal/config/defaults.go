package config

import "github.com/elidoras/datacore/internal/connectors"

// DefaultConfig returns a Config with sensible defaults: local data under
// ./data, chunk windows of 800 tokens with 120 overlap, scrubbing on, and
// rerank fusion off.
func DefaultConfig() *Config {
	return &Config{
		Project:      "datacore",
		DataRoot:     "data/raw",
		StoreDir:     ".datacore",
		ChunkTokens:  800,
		ChunkOverlap: 120,
		ScrubPII:     true,
		Blocklist:    connectors.DefaultBlocklist,
		Embedding: EmbeddingConfig{
			Backend: BackendAuto,
			Model:   "text-embedding-3-large",
		},
		Sources: SourcesConfig{
			FS: []FSSource{
				{Path: "data/raw", Patterns: []string{"**/*.md", "**/*.txt"}},
			},
			GDrive: GDriveSource{MaxFiles: 200},
			Gmail:  GmailSource{MaxResults: 50},
		},
		Rerank: RerankConfig{
			Enable:              false,
			Alpha:               0.5,
			CandidateMultiplier: 3,
		},
		Server: ServerConfig{Port: 8321},
	}
}
