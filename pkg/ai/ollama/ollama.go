// Package ollama implements the ai client interfaces against a local or
// remote Ollama server.
package ollama

import (
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/ollama/ollama/api"
)

const defaultHost = "http://127.0.0.1:11434"

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

func newAPIClient(baseURL string, apiKey string) (*api.Client, error) {
	u, err := resolveBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	httpClient := http.DefaultClient
	if apiKey != "" {
		httpClient = &http.Client{
			Transport: &headerTransport{
				headers: map[string]string{
					"Authorization": "Bearer " + apiKey,
				},
				rt: http.DefaultTransport,
			},
		}
	}

	return api.NewClient(u, httpClient), nil
}

// resolveBaseURL turns the configured base URL, or OLLAMA_HOST when none is
// configured, into the server URL. Scheme and port default to http and 11434
// (443 for https).
func resolveBaseURL(baseURL string) (*url.URL, error) {
	if baseURL == "" {
		baseURL = os.Getenv("OLLAMA_HOST")
	}
	if baseURL == "" {
		baseURL = defaultHost
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	if u.Port() == "" {
		port := "11434"
		if u.Scheme == "https" {
			port = "443"
		}
		u.Host = net.JoinHostPort(u.Hostname(), port)
	}
	return u, nil
}

// ChatClient is an ai.ChatClient backed by the Ollama chat API.
type ChatClient struct {
	model  string
	client *api.Client
}

// NewChatClientParams defines the configuration for creating a ChatClient.
type NewChatClientParams struct {
	Model   string
	BaseURL string
	APIKey  string
}

// NewChatClient creates a chat client against the Ollama server at BaseURL
// (or the environment default when empty).
func NewChatClient(params NewChatClientParams) (*ChatClient, error) {
	client, err := newAPIClient(params.BaseURL, params.APIKey)
	if err != nil {
		return nil, err
	}
	return &ChatClient{
		model:  params.Model,
		client: client,
	}, nil
}

// EmbeddingClient is an ai.EmbeddingClient backed by the Ollama embed API.
type EmbeddingClient struct {
	model     string
	dimension int
	client    *api.Client
}

// NewEmbeddingClientParams defines the configuration for creating an
// EmbeddingClient.
type NewEmbeddingClientParams struct {
	Model     string
	BaseURL   string
	APIKey    string
	Dimension int
}

// NewEmbeddingClient creates an embedding client against the Ollama server
// at BaseURL (or the environment default when empty).
func NewEmbeddingClient(params NewEmbeddingClientParams) (*EmbeddingClient, error) {
	client, err := newAPIClient(params.BaseURL, params.APIKey)
	if err != nil {
		return nil, err
	}
	return &EmbeddingClient{
		model:     params.Model,
		dimension: params.Dimension,
		client:    client,
	}, nil
}
