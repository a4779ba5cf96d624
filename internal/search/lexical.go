package search

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// LexicalScorer rates how well a chunk's text matches the query string,
// returning a score in [0,1].
type LexicalScorer interface {
	Score(query, text string) (float64, error)
}

// FuzzyScorer scores with token-set similarity so word order and repetition
// do not matter.
type FuzzyScorer struct{}

func (FuzzyScorer) Score(query, text string) (float64, error) {
	return float64(fuzzy.TokenSetRatio(query, text)) / 100, nil
}
