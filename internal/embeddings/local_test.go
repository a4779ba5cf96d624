package embeddings

import (
	"context"
	"math"
	"testing"
)

func TestLocalEmbedder_Deterministic(t *testing.T) {
	e := NewLocalEmbedder(0)
	ctx := context.Background()

	a, err := e.Embed(ctx, []string{"The sovereignty of the system"})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	b, err := e.Embed(ctx, []string{"The sovereignty of the system"})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("expected one vector each, got %d and %d", len(a), len(b))
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("vectors differ at %d: %v vs %v", i, a[0][i], b[0][i])
		}
	}
}

func TestLocalEmbedder_UnitNorm(t *testing.T) {
	e := NewLocalEmbedder(0)
	vecs, err := e.Embed(context.Background(), []string{"archive", "a much longer string with many trigrams inside it"})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	for _, v := range vecs {
		if len(v) != LocalDimensions {
			t.Errorf("dimension = %d, want %d", len(v), LocalDimensions)
		}
		var norm float64
		for _, x := range v {
			norm += float64(x) * float64(x)
		}
		if math.Abs(math.Sqrt(norm)-1.0) > 1e-5 {
			t.Errorf("norm = %f, want 1.0", math.Sqrt(norm))
		}
	}
}

func TestLocalEmbedder_DistinctStringsDiffer(t *testing.T) {
	e := NewLocalEmbedder(0)
	vecs, err := e.Embed(context.Background(), []string{
		"The sovereignty of the system rests on its archives",
		"The architecture of the building spans three centuries",
	})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	same := true
	for i := range vecs[0] {
		if vecs[0][i] != vecs[1][i] {
			same = false
			break
		}
	}
	if same {
		t.Error("distinct strings produced identical vectors")
	}
}

func TestLocalEmbedder_EmptyInput(t *testing.T) {
	e := NewLocalEmbedder(0)
	vecs, err := e.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if vecs != nil {
		t.Errorf("expected nil output for empty input, got %v", vecs)
	}
}

func TestNewOpenAIEmbedder_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIEmbedder("", ModelTextEmbedding3Small); err != ErrNoAPIKey {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}
