// Package chunk splits extracted text into overlapping token windows.
package chunk

import "strings"

// Defaults for token windowing.
const (
	DefaultChunkTokens = 800
	DefaultOverlap     = 120
)

// Chunker produces ordered, overlapping text segments from a document.
type Chunker struct {
	tokenizer   Tokenizer
	chunkTokens int
	overlap     int
}

// NewChunker creates a Chunker. Non-positive chunkTokens or negative overlap
// fall back to the defaults.
func NewChunker(tokenizer Tokenizer, chunkTokens, overlap int) *Chunker {
	if chunkTokens <= 0 {
		chunkTokens = DefaultChunkTokens
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	return &Chunker{tokenizer: tokenizer, chunkTokens: chunkTokens, overlap: overlap}
}

// Split windows the text into chunks of chunkTokens tokens, each window
// starting step tokens after the previous one. The step is clamped to at
// least 1 so that overlap >= chunkTokens can never stall the loop. Windows
// that decode to whitespace are dropped; order is document order.
func (c *Chunker) Split(text string) []string {
	toks := c.tokenizer.Encode(text)
	n := len(toks)
	if n == 0 {
		return nil
	}

	step := c.chunkTokens - c.overlap
	if step < 1 {
		step = 1
	}

	var out []string
	for start := 0; start < n; start += step {
		end := start + c.chunkTokens
		if end > n {
			end = n
		}
		piece := strings.TrimSpace(c.tokenizer.Decode(toks[start:end]))
		if piece != "" {
			out = append(out, piece)
		}
		// The last window is the one that reaches the end of the stream.
		if end == n {
			break
		}
	}
	return out
}
