// Package config loads and validates the datacore configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DATACORE_*). Nested keys use a double
// underscore: DATACORE_RERANK__ALPHA -> rerank.alpha.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("DATACORE_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "DATACORE_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validBackends is the set of recognized embedding backend values.
var validBackends = map[EmbeddingBackend]bool{
	BackendAuto:   true,
	BackendOpenAI: true,
	BackendLocal:  true,
}

// Validate checks that the configuration contains valid values. Errors here
// are fatal at startup, before any ingestion or serving begins.
func (c *Config) Validate() error {
	if c.Project == "" {
		return fmt.Errorf("project is required")
	}
	if c.StoreDir == "" {
		return fmt.Errorf("store_dir is required")
	}
	if c.ChunkTokens <= 0 {
		return fmt.Errorf("chunk_tokens must be positive, got %d", c.ChunkTokens)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("chunk_overlap must be non-negative, got %d", c.ChunkOverlap)
	}
	if !validBackends[c.Embedding.Backend] {
		return fmt.Errorf("invalid embedding backend %q: must be openai or local", c.Embedding.Backend)
	}
	if c.Rerank.Alpha < 0 || c.Rerank.Alpha > 1 {
		return fmt.Errorf("rerank alpha must be in [0,1], got %g", c.Rerank.Alpha)
	}
	if c.Rerank.CandidateMultiplier < 1 {
		return fmt.Errorf("rerank candidate_multiplier must be >= 1, got %d", c.Rerank.CandidateMultiplier)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
