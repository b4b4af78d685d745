// Package config holds the run options for the ingestion and query pipeline.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator"
)

// ErrInvalidChunking is returned when the chunk overlap is not smaller than
// the chunk size.
var ErrInvalidChunking = errors.New("chunk overlap must be smaller than chunk size")

// Chunk unit names accepted by the CLI.
const (
	ChunkUnitChars  = "chars"
	ChunkUnitTokens = "tokens"
)

// Options configures a pipeline run. Secrets (API keys, the Neo4j password,
// AWS credentials) are read from the environment once at startup and are
// never logged.
type Options struct {
	InputDir string `validate:"required"`

	ChunkSize    int    `validate:"gt=0"`
	ChunkOverlap int    `validate:"gte=0"`
	ChunkUnit    string `validate:"oneof=chars tokens"`

	LLMProvider       string `validate:"oneof=openai ollama"`
	LLMModel          string `validate:"required"`
	LLMBaseURL        string
	EmbeddingProvider string `validate:"oneof=openai ollama"`
	EmbeddingModel    string `validate:"required"`
	EmbeddingBaseURL  string
	EmbeddingDim      int `validate:"gt=0"`
	APIKey            string

	// MaxTries is the number of model attempts per extraction chunk and per
	// query generation. The default of 1 performs no retries.
	MaxTries int `validate:"gte=0"`

	Neo4jURI      string `validate:"required"`
	Neo4jUser     string `validate:"required"`
	Neo4jPassword string
	DatabaseName  string

	ClearExisting bool
	Question      string
	TopK          int `validate:"gt=0"`

	AllowedNodes           []string
	AllowedRelationships   []string
	NodeProperties         bool
	RelationshipProperties bool

	NodeLabel         string `validate:"required"`
	TextProperty      string `validate:"required"`
	EmbeddingProperty string `validate:"required"`
	VectorIndex       string `validate:"required"`
	KeywordIndex      string `validate:"required"`

	AWSRegion    string
	AWSEndpoint  string
	AWSAccessKey string
	AWSSecretKey string

	Debug bool
}

// Validate checks field constraints and the invariants between fields.
func (o *Options) Validate() error {
	if err := validator.New().Struct(o); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	if o.ChunkOverlap >= o.ChunkSize {
		return fmt.Errorf("%w: overlap %d, size %d", ErrInvalidChunking, o.ChunkOverlap, o.ChunkSize)
	}

	return nil
}
