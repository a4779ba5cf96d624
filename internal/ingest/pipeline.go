// Package ingest wires connectors, extraction, scrubbing, chunking and
// embedding into the vector store.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/elidoras/datacore/internal/chunk"
	"github.com/elidoras/datacore/internal/connectors"
	"github.com/elidoras/datacore/internal/embeddings"
	"github.com/elidoras/datacore/internal/extract"
	"github.com/elidoras/datacore/internal/ids"
	"github.com/elidoras/datacore/internal/scrub"
	"github.com/elidoras/datacore/internal/vectordb"
)

// ProgressFunc is called as documents are processed within one source.
type ProgressFunc func(processed, total int, current string)

// Result summarizes one ingestion run.
type Result struct {
	RunID       string
	Sources     int
	Documents   int
	Skipped     int
	Blocked     int
	Chunks      int
	Reconciled  int
	Errors      []error
	Duration    time.Duration
	SourceStats map[string]SourceStat
}

// SourceStat is the per-connector breakdown of a run.
type SourceStat struct {
	Documents int
	Chunks    int
	Errors    int
}

// Options tunes a single run.
type Options struct {
	// Force re-ingests documents whose content hash is unchanged.
	Force bool
	// Reconcile deletes entries whose filesystem source has vanished.
	Reconcile bool
}

// Pipeline is the ingestion orchestrator. Build it once at process start and
// pass it by reference; it holds no hidden global state.
type Pipeline struct {
	connectors []connectors.Connector
	blocklist  connectors.Blocklist
	chunker    *chunk.Chunker
	embedder   embeddings.Embedder
	store      vectordb.Store
	project    string
	dataRoot   string
	scrubPII   bool
	storeDir   string
	onProgress ProgressFunc
}

// Params collects the pipeline's dependencies.
type Params struct {
	Connectors []connectors.Connector
	Blocklist  connectors.Blocklist
	Chunker    *chunk.Chunker
	Embedder   embeddings.Embedder
	Store      vectordb.Store
	Project    string
	DataRoot   string
	ScrubPII   bool
	StoreDir   string
}

// NewPipeline creates a Pipeline from its dependencies.
func NewPipeline(p Params) *Pipeline {
	return &Pipeline{
		connectors: p.Connectors,
		blocklist:  p.Blocklist,
		chunker:    p.Chunker,
		embedder:   p.Embedder,
		store:      p.Store,
		project:    p.Project,
		dataRoot:   p.DataRoot,
		scrubPII:   p.ScrubPII,
		storeDir:   p.StoreDir,
	}
}

// SetProgressFunc sets the progress callback.
func (p *Pipeline) SetProgressFunc(fn ProgressFunc) {
	p.onProgress = fn
}

// Run processes every configured source. A failure in one source is recorded
// and the next source still runs. Cancellation stops between documents and
// leaves the store valid; whatever was upserted stays upserted.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID:       uuid.NewString(),
		SourceStats: make(map[string]SourceStat),
	}

	state, err := LoadState(p.storeDir)
	if err != nil {
		return nil, fmt.Errorf("load ingest state: %w", err)
	}

	for _, conn := range p.connectors {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, ctx.Err())
			break
		}
		result.Sources++
		stat := p.runSource(ctx, conn, state, opts, result)
		result.SourceStats[conn.Name()] = stat
	}

	if err := p.finish(ctx, state); err != nil {
		result.Errors = append(result.Errors, err)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// runSource ingests all documents of one connector.
func (p *Pipeline) runSource(ctx context.Context, conn connectors.Connector, state *State, opts Options, result *Result) SourceStat {
	var stat SourceStat

	docs, err := conn.List(ctx)
	if err != nil {
		// Source-level failure: record and move on to the next source.
		result.Errors = append(result.Errors, fmt.Errorf("%s: list: %w", conn.Name(), err))
		stat.Errors++
		return stat
	}

	live := make(map[string]bool, len(docs))
	for i, doc := range docs {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, ctx.Err())
			return stat
		}
		if p.onProgress != nil {
			p.onProgress(i+1, len(docs), doc.Name)
		}

		live[doc.Name] = true

		if p.blocklist.Blocked(doc.Name) {
			result.Blocked++
			continue
		}

		hash := contentHash(doc.Data)
		if !opts.Force && !state.Changed(doc.Name, hash) {
			result.Skipped++
			continue
		}

		n, err := p.ingestDocument(ctx, conn.Name(), doc, state, hash)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %s: %w", conn.Name(), doc.Name, err))
			stat.Errors++
			continue
		}
		if n == 0 {
			result.Skipped++
			continue
		}
		result.Documents++
		result.Chunks += n
		stat.Documents++
		stat.Chunks += n
	}

	if opts.Reconcile {
		// Only the filesystem listing is authoritative: an empty remote
		// listing may just mean disabled credentials.
		if _, ok := conn.(*connectors.FilesystemConnector); ok {
			result.Reconciled += p.reconcile(ctx, conn.Name(), live, state, result)
		}
	}

	return stat
}

// ingestDocument runs extract -> scrub -> chunk -> embed -> upsert for one
// document and returns the number of chunks stored. Zero chunks with nil
// error means there was nothing to index.
func (p *Pipeline) ingestDocument(ctx context.Context, connName string, doc connectors.RawDocument, state *State, hash string) (int, error) {
	text, err := extract.Text(doc.Name, doc.Data)
	if err != nil {
		return 0, fmt.Errorf("extract: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	if p.scrubPII {
		text = scrub.Text(text)
	}

	chunks := p.chunker.Split(text)
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := p.embedder.Embed(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embed: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embed: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	// A previously indexed version may have had more chunks; drop it first
	// so no stale tail survives the overwrite.
	if prev, ok := state.Sources[doc.Name]; ok && prev.Chunks > len(chunks) {
		if err := p.store.DeleteBySource(ctx, doc.Name); err != nil {
			return 0, fmt.Errorf("delete stale entries: %w", err)
		}
	}

	category := p.category(doc.Name)
	entries := make([]vectordb.Entry, len(chunks))
	for i, c := range chunks {
		entries[i] = vectordb.Entry{
			ID:        ids.Chunk(doc.Name, i),
			Text:      c,
			Embedding: vectors[i],
			Metadata: map[string]string{
				vectordb.MetaSource:   doc.Name,
				vectordb.MetaProject:  p.project,
				vectordb.MetaCategory: category,
			},
		}
	}

	if err := p.store.Upsert(ctx, entries); err != nil {
		return 0, fmt.Errorf("upsert: %w", err)
	}

	state.Sources[doc.Name] = SourceRecord{ContentHash: hash, Chunks: len(chunks), Connector: connName}
	return len(chunks), nil
}

// reconcile removes index entries for tracked sources this connector no
// longer lists.
func (p *Pipeline) reconcile(ctx context.Context, connName string, live map[string]bool, state *State, result *Result) int {
	removed := 0
	for source, rec := range state.Sources {
		if rec.Connector != connName || live[source] {
			continue
		}
		if err := p.store.DeleteBySource(ctx, source); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("reconcile %s: %w", source, err))
			continue
		}
		delete(state.Sources, source)
		removed++
		log.Printf("ingest: reconciled vanished source %s (%d chunks)", source, rec.Chunks)
	}
	return removed
}

// finish persists the vector store and the ingest state. It runs even after
// cancellation so a partial run stays consistent on disk.
func (p *Pipeline) finish(ctx context.Context, state *State) error {
	if err := p.store.Persist(ctx, p.storeDir); err != nil {
		return fmt.Errorf("persist store: %w", err)
	}
	if err := state.Save(p.storeDir); err != nil {
		return fmt.Errorf("save ingest state: %w", err)
	}
	return nil
}

// category derives the document's category: the top-level path segment
// relative to the data root, or "misc" when the name is not under it.
func (p *Pipeline) category(name string) string {
	root, err := filepath.Abs(p.dataRoot)
	if err != nil {
		return "misc"
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return "misc"
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "misc"
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) > 1 {
		return parts[0]
	}
	return "misc"
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
