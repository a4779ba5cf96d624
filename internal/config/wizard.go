package config

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to datacore! Let's configure ingestion.")
	fmt.Println()

	cfg := DefaultConfig()

	rootPrompt := promptui.Prompt{
		Label:   "Data root (documents to ingest)",
		Default: cfg.DataRoot,
	}
	dataRoot, err := rootPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data root: %w", err)
	}
	cfg.DataRoot = dataRoot
	cfg.Sources.FS = []FSSource{{Path: dataRoot, Patterns: []string{"**/*.md", "**/*.txt"}}}

	backendPrompt := promptui.Select{
		Label: "Embedding backend",
		Items: []string{
			"auto (OpenAI when OPENAI_API_KEY is set, local otherwise)",
			"openai (remote batch API, requires OPENAI_API_KEY)",
			"local (deterministic hash embeddings, no network)",
		},
	}
	backendIdx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend selection: %w", err)
	}
	cfg.Embedding.Backend = []EmbeddingBackend{BackendAuto, BackendOpenAI, BackendLocal}[backendIdx]

	scrubPrompt := promptui.Select{
		Label: "Scrub PII (emails, phone numbers, key tokens) before indexing",
		Items: []string{"yes", "no"},
	}
	scrubIdx, _, err := scrubPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("scrub selection: %w", err)
	}
	cfg.ScrubPII = scrubIdx == 0

	rerankPrompt := promptui.Select{
		Label: "Enable lexical rerank fusion at query time",
		Items: []string{"no", "yes"},
	}
	rerankIdx, _, err := rerankPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("rerank selection: %w", err)
	}
	cfg.Rerank.Enable = rerankIdx == 1

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Printf("Configuration written to %s\n", path)
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println("Next: run `datacore ingest`, then `datacore serve`.")
	return cfg, nil
}
