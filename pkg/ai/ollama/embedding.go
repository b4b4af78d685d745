package ollama

import (
	"context"
	"strings"

	"github.com/ollama/ollama/api"
)

const defaultDimension = 768

// GenerateEmbedding creates a vector embedding for the given input text
// using the configured embedding model on Ollama. Blank input yields a zero
// vector without a remote call. The result is padded or truncated to the
// configured dimension.
func (c *EmbeddingClient) GenerateEmbedding(ctx context.Context, input string) ([]float32, error) {
	dim := c.dimension
	if dim <= 0 {
		dim = defaultDimension
	}
	if strings.TrimSpace(input) == "" {
		return make([]float32, dim), nil
	}

	req := &api.EmbedRequest{
		Model: c.model,
		Input: input,
	}

	res, err := c.client.Embed(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make([]float32, 0, dim)
	for _, v := range res.Embeddings {
		for _, val := range v {
			if len(out) >= dim {
				break
			}
			out = append(out, float32(val))
		}
	}
	if len(out) < dim {
		padded := make([]float32, dim)
		copy(padded, out)
		out = padded
	}
	return out, nil
}
