package embedding

import (
	"context"
	"math"
	"testing"
)

func TestNormalizeProducesUnitVector(t *testing.T) {
	v := []float32{3, 4, 0}
	normalize(v)

	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	norm := math.Sqrt(sumSq)
	if math.Abs(norm-1.0) > 1e-6 {
		t.Errorf("expected unit norm, got %v (vector %v)", norm, v)
	}
}

func TestNormalizeZeroVectorUnchanged(t *testing.T) {
	v := []float32{0, 0, 0}
	normalize(v)
	for _, x := range v {
		if x != 0 {
			t.Errorf("expected zero vector to stay zero, got %v", v)
		}
	}
}

func TestMockEmbedderReturnsUnitNormAndCorrectDimension(t *testing.T) {
	e := NewMockEmbedder(16)
	v, err := e.Embed(context.Background(), "func Login")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v) != 16 {
		t.Fatalf("expected dimension 16, got %d", len(v))
	}

	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(sumSq)-1.0) > 1e-6 {
		t.Errorf("expected unit-norm embedding, got norm %v", math.Sqrt(sumSq))
	}
}

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(8)
	a, err := e.Embed(context.Background(), "same input")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := e.Embed(context.Background(), "same input")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("expected deterministic output, index %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestMockEmbedderEmptyTextAvoidsZeroVector(t *testing.T) {
	e := NewMockEmbedder(4)
	v, err := e.Embed(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allZero(v) {
		t.Error("expected empty input to still produce a nonzero vector")
	}
}

func TestMockEmbedderDimensionMatchesConstructor(t *testing.T) {
	e := NewMockEmbedder(384)
	if got := e.Dimension(); got != 384 {
		t.Errorf("Dimension() = %d, want 384", got)
	}
}
