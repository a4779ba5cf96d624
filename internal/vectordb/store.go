// Package vectordb stores chunk embeddings and serves similarity queries.
package vectordb

import "context"

// Store is the vector store contract. Upsert is the sole mutation primitive:
// last-write-wins per id, no cross-id atomicity.
type Store interface {
	// Upsert inserts or overwrites entries by id.
	Upsert(ctx context.Context, entries []Entry) error

	// Query returns up to n entries ordered ascending by distance from the
	// query embedding.
	Query(ctx context.Context, embedding []float32, n int) ([]Result, error)

	// DeleteBySource removes all entries whose source metadata matches.
	DeleteBySource(ctx context.Context, source string) error

	// Delete removes entries by id. Unknown ids are ignored.
	Delete(ctx context.Context, ids ...string) error

	// Count returns the number of stored entries.
	Count() int

	// Persist saves the store's data under the given directory.
	Persist(ctx context.Context, dir string) error

	// Load restores the store's data from the given directory.
	Load(ctx context.Context, dir string) error
}
