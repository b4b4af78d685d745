package mock

import (
	"context"
	"testing"
)

func TestGenerateEmbedding(t *testing.T) {
	t.Run("deterministic for identical input", func(t *testing.T) {
		m := NewEmbeddingClient(16)

		a, err := m.GenerateEmbedding(context.Background(), "same text")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := m.GenerateEmbedding(context.Background(), "same text")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(a) != 16 {
			t.Fatalf("unexpected dimension: %d", len(a))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("vectors differ at %d: %v vs %v", i, a[i], b[i])
			}
		}
	})

	t.Run("different inputs produce different vectors", func(t *testing.T) {
		m := NewEmbeddingClient(16)

		a, _ := m.GenerateEmbedding(context.Background(), "first")
		b, _ := m.GenerateEmbedding(context.Background(), "second")

		same := true
		for i := range a {
			if a[i] != b[i] {
				same = false
				break
			}
		}
		if same {
			t.Fatal("expected different vectors for different inputs")
		}
	})

	t.Run("values stay in range", func(t *testing.T) {
		m := NewEmbeddingClient(64)
		vec, _ := m.GenerateEmbedding(context.Background(), "range check")
		for i, v := range vec {
			if v < -1 || v >= 1 {
				t.Fatalf("value %d out of range: %v", i, v)
			}
		}
	})

	t.Run("injected function wins", func(t *testing.T) {
		m := NewEmbeddingClient(4)
		m.GenerateEmbeddingFunc = func(ctx context.Context, input string) ([]float32, error) {
			return []float32{1, 2, 3}, nil
		}

		vec, err := m.GenerateEmbedding(context.Background(), "anything")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(vec) != 3 || vec[0] != 1 {
			t.Fatalf("unexpected vector: %v", vec)
		}
		if m.CallCount() != 1 {
			t.Fatalf("expected 1 call, got %d", m.CallCount())
		}
	})
}
