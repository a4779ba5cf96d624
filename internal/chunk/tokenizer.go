package chunk

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used for chunk windowing.
const DefaultEncoding = "cl100k_base"

// Tokenizer converts text to a token stream and back. The chunker only needs
// round-tripping, not vocabulary semantics, so test code can substitute a
// trivial word tokenizer.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// tiktokenTokenizer wraps a tiktoken BPE encoding.
type tiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTokenizer returns a Tokenizer backed by the named tiktoken encoding.
// Pass "" for DefaultEncoding.
func NewTokenizer(encoding string) (Tokenizer, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", encoding, err)
	}
	return &tiktokenTokenizer{enc: enc}, nil
}

func (t *tiktokenTokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

func (t *tiktokenTokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}
