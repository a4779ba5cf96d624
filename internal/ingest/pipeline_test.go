package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/elidoras/datacore/internal/chunk"
	"github.com/elidoras/datacore/internal/connectors"
	"github.com/elidoras/datacore/internal/embeddings"
	"github.com/elidoras/datacore/internal/vectordb"
)

// wordTokenizer splits on whitespace so chunk sizes are easy to reason about.
type wordTokenizer struct {
	words []string
}

func (t *wordTokenizer) Encode(text string) []int {
	t.words = strings.Fields(text)
	tokens := make([]int, len(t.words))
	for i := range tokens {
		tokens[i] = i
	}
	return tokens
}

func (t *wordTokenizer) Decode(tokens []int) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = t.words[tok]
	}
	return strings.Join(parts, " ")
}

type failingConnector struct{}

func (failingConnector) Name() string { return "broken" }

func (failingConnector) List(ctx context.Context) ([]connectors.RawDocument, error) {
	return nil, errors.New("listing failed")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// repeatWords produces a document with exactly n whitespace tokens.
func repeatWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = "word" + string(rune('a'+i%26))
	}
	return strings.Join(words, " ")
}

func newTestPipeline(t *testing.T, dataRoot string, chunkTokens, overlap int) (*Pipeline, vectordb.Store) {
	t.Helper()
	store, err := vectordb.NewChromemStore(embeddings.NewLocalEmbedder(64))
	if err != nil {
		t.Fatal(err)
	}
	p := NewPipeline(Params{
		Connectors: []connectors.Connector{connectors.NewFilesystem(dataRoot, nil)},
		Blocklist:  connectors.DefaultBlocklist,
		Chunker:    chunk.NewChunker(&wordTokenizer{}, chunkTokens, overlap),
		Embedder:   embeddings.NewLocalEmbedder(64),
		Store:      store,
		Project:    "test",
		DataRoot:   dataRoot,
		StoreDir:   t.TempDir(),
	})
	return p, store
}

func TestRunIngestsAndBlocks(t *testing.T) {
	dataRoot := t.TempDir()
	writeFile(t, filepath.Join(dataRoot, "notes", "alpha.md"), "alpha document about orbital mechanics")
	writeFile(t, filepath.Join(dataRoot, "secrets", "creds.txt"), "super secret credentials")

	p, store := newTestPipeline(t, dataRoot, 100, 10)
	result, err := p.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Documents != 1 {
		t.Errorf("Documents = %d, want 1", result.Documents)
	}
	if result.Blocked != 1 {
		t.Errorf("Blocked = %d, want 1", result.Blocked)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if result.RunID == "" {
		t.Error("RunID is empty")
	}
	if store.Count() != result.Chunks {
		t.Errorf("store count = %d, want %d", store.Count(), result.Chunks)
	}

	// The alpha document becomes one chunk; the blocked file contributes none.
	if store.Count() != 1 {
		t.Errorf("store count = %d, want 1", store.Count())
	}
}

func TestRunAssignsCategory(t *testing.T) {
	dataRoot := t.TempDir()
	writeFile(t, filepath.Join(dataRoot, "notes", "alpha.md"), "alpha document")
	writeFile(t, filepath.Join(dataRoot, "toplevel.md"), "top level document")

	p, store := newTestPipeline(t, dataRoot, 100, 10)
	if _, err := p.Run(context.Background(), Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	emb, err := embeddings.NewLocalEmbedder(64).Embed(context.Background(), []string{"alpha document"})
	if err != nil {
		t.Fatal(err)
	}
	results, err := store.Query(context.Background(), emb[0], 2)
	if err != nil {
		t.Fatal(err)
	}

	categories := make(map[string]string)
	for _, r := range results {
		categories[r.Metadata[vectordb.MetaSource]] = r.Metadata[vectordb.MetaCategory]
	}
	for source, category := range categories {
		want := "misc"
		if strings.Contains(source, "notes") {
			want = "notes"
		}
		if category != want {
			t.Errorf("category for %s = %q, want %q", source, category, want)
		}
	}
}

func TestRunChunkCount(t *testing.T) {
	dataRoot := t.TempDir()
	writeFile(t, filepath.Join(dataRoot, "long.txt"), repeatWords(2000))

	p, store := newTestPipeline(t, dataRoot, 800, 120)
	result, err := p.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Chunks != 3 {
		t.Errorf("Chunks = %d, want 3", result.Chunks)
	}
	if store.Count() != 3 {
		t.Errorf("store count = %d, want 3", store.Count())
	}
}

func TestRunSkipsUnchanged(t *testing.T) {
	dataRoot := t.TempDir()
	writeFile(t, filepath.Join(dataRoot, "doc.md"), "stable content")

	p, store := newTestPipeline(t, dataRoot, 100, 10)
	if _, err := p.Run(context.Background(), Options{}); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	second, err := p.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second.Documents != 0 {
		t.Errorf("second run Documents = %d, want 0", second.Documents)
	}
	if second.Skipped != 1 {
		t.Errorf("second run Skipped = %d, want 1", second.Skipped)
	}
	if store.Count() != 1 {
		t.Errorf("store count = %d, want 1", store.Count())
	}

	forced, err := p.Run(context.Background(), Options{Force: true})
	if err != nil {
		t.Fatalf("forced Run: %v", err)
	}
	if forced.Documents != 1 {
		t.Errorf("forced run Documents = %d, want 1", forced.Documents)
	}
	if store.Count() != 1 {
		t.Errorf("store count after force = %d, want 1", store.Count())
	}
}

func TestRunReingestsChanged(t *testing.T) {
	dataRoot := t.TempDir()
	path := filepath.Join(dataRoot, "doc.md")
	writeFile(t, path, repeatWords(2000))

	p, store := newTestPipeline(t, dataRoot, 800, 120)
	if _, err := p.Run(context.Background(), Options{}); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if store.Count() != 3 {
		t.Fatalf("store count = %d, want 3", store.Count())
	}

	// Shrink the document; the stale chunk tail must not survive.
	writeFile(t, path, "short now")
	result, err := p.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if result.Documents != 1 {
		t.Errorf("Documents = %d, want 1", result.Documents)
	}
	if store.Count() != 1 {
		t.Errorf("store count = %d, want 1", store.Count())
	}
}

func TestRunReconcilesVanishedSources(t *testing.T) {
	dataRoot := t.TempDir()
	path := filepath.Join(dataRoot, "gone.md")
	writeFile(t, path, "document that will disappear")
	writeFile(t, filepath.Join(dataRoot, "stays.md"), "document that stays")

	p, store := newTestPipeline(t, dataRoot, 100, 10)
	if _, err := p.Run(context.Background(), Options{}); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if store.Count() != 2 {
		t.Fatalf("store count = %d, want 2", store.Count())
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	result, err := p.Run(context.Background(), Options{Reconcile: true})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if result.Reconciled != 1 {
		t.Errorf("Reconciled = %d, want 1", result.Reconciled)
	}
	if store.Count() != 1 {
		t.Errorf("store count = %d, want 1", store.Count())
	}
}

func TestRunIsolatesSourceFailures(t *testing.T) {
	dataRoot := t.TempDir()
	writeFile(t, filepath.Join(dataRoot, "ok.md"), "healthy document")

	p, store := newTestPipeline(t, dataRoot, 100, 10)
	p.connectors = append([]connectors.Connector{failingConnector{}}, p.connectors...)

	result, err := p.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want one listing failure", result.Errors)
	}
	if result.Documents != 1 {
		t.Errorf("Documents = %d, want 1", result.Documents)
	}
	if store.Count() != 1 {
		t.Errorf("store count = %d, want 1", store.Count())
	}
	if result.SourceStats["broken"].Errors != 1 {
		t.Errorf("SourceStats[broken].Errors = %d, want 1", result.SourceStats["broken"].Errors)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	dataRoot := t.TempDir()
	writeFile(t, filepath.Join(dataRoot, "doc.md"), "some content")

	p, _ := newTestPipeline(t, dataRoot, 100, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := p.Run(ctx, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Documents != 0 {
		t.Errorf("Documents = %d, want 0 after cancellation", result.Documents)
	}
	if len(result.Errors) == 0 {
		t.Error("expected a cancellation error in Errors")
	}
}
