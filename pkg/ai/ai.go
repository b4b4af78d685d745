package ai

import (
	"context"
)

// GenerateOptions holds configuration for chat generation requests.
type GenerateOptions struct {
	Model         string   // Model identifier to use for generation
	SystemPrompts []string // System prompts prepended to the request
	Temperature   float64  // Sampling temperature (0.0-2.0)
}

// GenerateOption is a functional option for configuring generation requests.
type GenerateOption func(*GenerateOptions)

// WithSystemPrompts returns a GenerateOption that sets the system prompts
// to prepend to the generation request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature returns a GenerateOption that sets the sampling temperature.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// ChatClient is a chat/completion model client. Implementations wrap a
// provider SDK; constructing one performs no network I/O.
type ChatClient interface {
	// GenerateCompletion sends a single-turn prompt and returns the
	// generated completion as plain text.
	GenerateCompletion(
		ctx context.Context,
		prompt string,
		opts ...GenerateOption,
	) (string, error)

	// GenerateCompletionWithFormat sends a prompt and unmarshals the
	// response into out, using a JSON schema derived from out's type to
	// enforce structure.
	GenerateCompletionWithFormat(
		ctx context.Context,
		name string,
		description string,
		prompt string,
		out any,
		opts ...GenerateOption,
	) error
}

// EmbeddingClient computes fixed-dimension vector embeddings for text.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, input string) ([]float32, error)
}
