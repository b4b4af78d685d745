// Package openai implements the ai client interfaces on top of the official
// OpenAI Go SDK. A custom BaseURL makes the clients work against any
// OpenAI-compatible endpoint.
package openai

import (
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ChatClient is an ai.ChatClient backed by the OpenAI chat completions API.
type ChatClient struct {
	model  string
	client *openai.Client
}

// NewChatClientParams defines the configuration for creating a ChatClient.
type NewChatClientParams struct {
	Model   string
	BaseURL string
	APIKey  string
}

// NewChatClient creates a chat client for the configured model and endpoint.
// No network call happens at construction time.
func NewChatClient(params NewChatClientParams) *ChatClient {
	return &ChatClient{
		model:  params.Model,
		client: newClient(params.BaseURL, params.APIKey),
	}
}

// EmbeddingClient is an ai.EmbeddingClient backed by the OpenAI embeddings API.
type EmbeddingClient struct {
	model     string
	dimension int
	client    *openai.Client
}

// NewEmbeddingClientParams defines the configuration for creating an
// EmbeddingClient. Dimension is the expected vector size; shorter responses
// are zero-padded and longer ones truncated.
type NewEmbeddingClientParams struct {
	Model     string
	BaseURL   string
	APIKey    string
	Dimension int
}

// NewEmbeddingClient creates an embedding client for the configured model and
// endpoint. No network call happens at construction time.
func NewEmbeddingClient(params NewEmbeddingClientParams) *EmbeddingClient {
	return &EmbeddingClient{
		model:     params.Model,
		dimension: params.Dimension,
		client:    newClient(params.BaseURL, params.APIKey),
	}
}

func newClient(baseURL string, apiKey string) *openai.Client {
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)
	return &client
}
