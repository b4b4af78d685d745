package mock

import (
	"context"
	"hash/fnv"
)

// EmbeddingClient is a test double for ai.EmbeddingClient. Without an
// injected function it returns deterministic vectors derived from the input
// text so that identical inputs always embed identically.
type EmbeddingClient struct {
	// GenerateEmbeddingFunc is called by GenerateEmbedding if set.
	GenerateEmbeddingFunc func(ctx context.Context, input string) ([]float32, error)

	// Dimension is the length of generated default vectors.
	Dimension int

	callCount int
}

// NewEmbeddingClient creates a mock embedding client producing vectors of the
// given dimension.
func NewEmbeddingClient(dimension int) *EmbeddingClient {
	return &EmbeddingClient{Dimension: dimension}
}

// GenerateEmbedding returns the injected embedding, or a deterministic vector
// seeded from the input text.
func (m *EmbeddingClient) GenerateEmbedding(
	ctx context.Context,
	input string,
) ([]float32, error) {
	m.callCount++
	if m.GenerateEmbeddingFunc != nil {
		return m.GenerateEmbeddingFunc(ctx, input)
	}
	return deterministicVector(input, m.Dimension), nil
}

// CallCount returns the number of embedding calls made.
func (m *EmbeddingClient) CallCount() int {
	return m.callCount
}

// deterministicVector derives a pseudo-random but stable vector from the
// FNV hash of the input text.
func deterministicVector(input string, dimension int) []float32 {
	h := fnv.New64a()
	h.Write([]byte(input))
	state := h.Sum64()

	vec := make([]float32, dimension)
	for i := range vec {
		state = state*6364136223846793005 + 1442695040888963407
		// Map the top 32 bits onto [-1, 1).
		vec[i] = float64ToUnit(state>>32)*2 - 1
	}
	return vec
}

func float64ToUnit(v uint64) float32 {
	return float32(float64(v) / float64(1<<32))
}
