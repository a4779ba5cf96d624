package vectordb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	chromem "github.com/philippgille/chromem-go"

	"github.com/elidoras/datacore/internal/embeddings"
)

const collectionName = "datacore"

// SnapshotFile is the on-disk snapshot name inside the store directory.
const SnapshotFile = "chromem.gob.gz"

// ChromemStore implements Store using chromem-go.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// NewChromemStore creates an in-memory ChromemStore. The embedder is only
// consulted for entries added without a precomputed embedding.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemStore{db: db, collection: col, embedFunc: ef}, nil
}

func (s *ChromemStore) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(entries))
	for i, e := range entries {
		docs[i] = chromem.Document{
			ID:        e.ID,
			Content:   e.Text,
			Embedding: e.Embedding,
			Metadata:  e.Metadata,
		}
	}

	// chromem keys documents by id, so adding an existing id overwrites it.
	return s.collection.AddDocuments(ctx, docs, 1)
}

func (s *ChromemStore) Query(ctx context.Context, embedding []float32, n int) ([]Result, error) {
	count := s.collection.Count()
	if count == 0 || n <= 0 {
		return nil, nil
	}
	// chromem-go requires nResults <= collection size.
	if n > count {
		n = count
	}

	hits, err := s.collection.QueryEmbedding(ctx, embedding, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{
			ID:       h.ID,
			Text:     h.Content,
			Metadata: h.Metadata,
			// chromem reports cosine similarity in [-1, 1]; results arrive
			// ordered descending by it, so 1-sim is ascending distance.
			Distance: float64(1 - h.Similarity),
		}
	}
	return results, nil
}

func (s *ChromemStore) DeleteBySource(ctx context.Context, source string) error {
	return s.collection.Delete(ctx, map[string]string{MetaSource: source}, nil)
}

func (s *ChromemStore) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.collection.Delete(ctx, nil, nil, ids...)
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

func (s *ChromemStore) Persist(_ context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	return s.db.ExportToFile(filepath.Join(dir, SnapshotFile), true, "")
}

func (s *ChromemStore) Load(_ context.Context, dir string) error {
	if err := s.db.ImportFromFile(filepath.Join(dir, SnapshotFile), ""); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}

	// Re-acquire the collection reference after import.
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col
	return nil
}
