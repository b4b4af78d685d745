package ai

import (
	"errors"
)

// ErrUnsupportedProvider is returned by the provider factories when a
// provider name has no known constructor.
var ErrUnsupportedProvider = errors.New("unsupported provider")

// Provider names accepted by the factories in the provider package.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// ClientParams configures a provider client. BaseURL may point at any
// API-compatible endpoint; an empty value selects the provider default.
type ClientParams struct {
	Model     string
	BaseURL   string
	APIKey    string
	Dimension int // embedding vector size, embedding clients only
}
