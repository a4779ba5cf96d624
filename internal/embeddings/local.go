package embeddings

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"encoding/binary"
	"math"
)

// LocalDimensions is the vector size of the hash embedder.
const LocalDimensions = 384

// LocalEmbedder is a deterministic, network-free fallback. It hashes each
// character (weight 1.0) and each 3-character substring (weight 2.0) into a
// fixed-size bag-of-hashes vector and L2-normalizes the result. Not
// semantically rich, but stable across runs and good enough to exercise the
// full pipeline without cost or connectivity.
type LocalEmbedder struct {
	dims int
}

// NewLocalEmbedder creates a LocalEmbedder. Non-positive dims falls back to
// LocalDimensions.
func NewLocalEmbedder(dims int) *LocalEmbedder {
	if dims <= 0 {
		dims = LocalDimensions
	}
	return &LocalEmbedder{dims: dims}
}

func (e *LocalEmbedder) Name() string { return "local-hash" }

func (e *LocalEmbedder) Dimensions() int { return e.dims }

func (e *LocalEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

func (e *LocalEmbedder) vector(s string) []float32 {
	vec := make([]float64, e.dims)

	runes := []rune(s)
	for _, r := range runes {
		sum := sha1.Sum([]byte(string(r)))
		vec[bucket(sum[:8], e.dims)] += 1.0
	}
	for i := 0; i+3 <= len(runes); i++ {
		sum := md5.Sum([]byte(string(runes[i : i+3])))
		vec[bucket(sum[:8], e.dims)] += 2.0
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		norm = 1
	}

	out := make([]float32, e.dims)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}

func bucket(hash []byte, dims int) int {
	return int(binary.BigEndian.Uint64(hash) % uint64(dims))
}
