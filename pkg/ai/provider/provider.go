// Package provider maps provider names to concrete AI client constructors.
// The mapping is a fixed enumeration; unknown names fail closed with
// ai.ErrUnsupportedProvider.
package provider

import (
	"fmt"

	"github.com/okralabs/graphive/pkg/ai"
	"github.com/okralabs/graphive/pkg/ai/ollama"
	"github.com/okralabs/graphive/pkg/ai/openai"
)

// NewChatClient constructs a chat/completion client for the named provider.
// Construction performs no network I/O.
func NewChatClient(name string, params ai.ClientParams) (ai.ChatClient, error) {
	switch name {
	case ai.ProviderOpenAI:
		return openai.NewChatClient(openai.NewChatClientParams{
			Model:   params.Model,
			BaseURL: params.BaseURL,
			APIKey:  params.APIKey,
		}), nil
	case ai.ProviderOllama:
		return ollama.NewChatClient(ollama.NewChatClientParams{
			Model:   params.Model,
			BaseURL: params.BaseURL,
			APIKey:  params.APIKey,
		})
	default:
		return nil, fmt.Errorf("chat provider %q: %w", name, ai.ErrUnsupportedProvider)
	}
}

// NewEmbeddingClient constructs an embedding client for the named provider.
func NewEmbeddingClient(name string, params ai.ClientParams) (ai.EmbeddingClient, error) {
	switch name {
	case ai.ProviderOpenAI:
		return openai.NewEmbeddingClient(openai.NewEmbeddingClientParams{
			Model:     params.Model,
			BaseURL:   params.BaseURL,
			APIKey:    params.APIKey,
			Dimension: params.Dimension,
		}), nil
	case ai.ProviderOllama:
		return ollama.NewEmbeddingClient(ollama.NewEmbeddingClientParams{
			Model:     params.Model,
			BaseURL:   params.BaseURL,
			APIKey:    params.APIKey,
			Dimension: params.Dimension,
		})
	default:
		return nil, fmt.Errorf("embedding provider %q: %w", name, ai.ErrUnsupportedProvider)
	}
}
