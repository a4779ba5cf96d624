// Package search answers queries against the vector store, optionally fusing
// vector similarity with a lexical rerank.
package search

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/elidoras/datacore/internal/embeddings"
	"github.com/elidoras/datacore/internal/vectordb"
)

// Hit is one search result.
type Hit struct {
	Score  float64 `json:"score"`
	Source string  `json:"source"`
	Text   string  `json:"text"`
}

// Options controls rerank fusion.
type Options struct {
	// Rerank enables lexical rerank fusion.
	Rerank bool
	// Alpha in [0,1] weights the vector score; 1-Alpha weights the lexical
	// score.
	Alpha float64
	// CandidateMultiplier widens the rerank candidate pool to
	// k*CandidateMultiplier. Values below 1 fall back to 3.
	CandidateMultiplier int
}

// Service runs queries end to end: embed, vector search, optional fusion.
type Service struct {
	store    vectordb.Store
	embedder embeddings.Embedder
	scorer   LexicalScorer
	opts     Options
}

// NewService creates a search service. A nil scorer defaults to token-set
// fuzzy matching.
func NewService(store vectordb.Store, embedder embeddings.Embedder, scorer LexicalScorer, opts Options) *Service {
	if scorer == nil {
		scorer = FuzzyScorer{}
	}
	if opts.CandidateMultiplier < 1 {
		opts.CandidateMultiplier = 3
	}
	return &Service{store: store, embedder: embedder, scorer: scorer, opts: opts}
}

// Search returns the top k hits for q, best first. An empty query or a
// non-positive k yields no hits and no error.
func (s *Service) Search(ctx context.Context, q string, k int) ([]Hit, error) {
	if strings.TrimSpace(q) == "" || k <= 0 {
		return []Hit{}, nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{q})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	pool := k
	if s.opts.Rerank {
		pool = k * s.opts.CandidateMultiplier
	}

	candidates, err := s.store.Query(ctx, vectors[0], pool)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	hits := make([]Hit, len(candidates))
	for i, c := range candidates {
		hits[i] = Hit{
			Score:  1 / (1 + c.Distance),
			Source: c.Source(),
			Text:   c.Text,
		}
	}

	if s.opts.Rerank {
		hits = s.fuse(q, hits)
	}

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// fuse blends each hit's vector score with a lexical score and re-sorts.
// Hits arrive in vector order, so a stable sort breaks fused-score ties by
// vector rank. If any lexical score fails the vector ordering is kept as-is.
func (s *Service) fuse(q string, hits []Hit) []Hit {
	lexical := make([]float64, len(hits))
	for i, h := range hits {
		l, err := s.scorer.Score(q, h.Text)
		if err != nil {
			log.Printf("search: lexical scoring failed, keeping vector order: %v", err)
			return hits
		}
		lexical[i] = l
	}

	for i := range hits {
		hits[i].Score = s.opts.Alpha*hits[i].Score + (1-s.opts.Alpha)*lexical[i]
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	return hits
}
