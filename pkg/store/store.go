// Package store defines the interface for persisting and querying the
// knowledge graph and its search indexes.
package store

import (
	"context"
	"fmt"

	"github.com/okralabs/graphive/pkg/ai"
	"github.com/okralabs/graphive/pkg/graph"
)

// StoreError is returned when a graph store operation fails. Op names the
// failing operation for diagnostics.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("graph store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// SearchResult is a single hit from a similarity or hybrid search.
type SearchResult struct {
	ID    string
	Text  string
	Score float64
}

// VectorIndexParams defines the configuration for a vector index over node
// embeddings.
type VectorIndexParams struct {
	IndexName         string
	NodeLabel         string
	EmbeddingProperty string
	Dimension         int
}

// FulltextIndexParams defines the configuration for a keyword index over
// node text properties.
type FulltextIndexParams struct {
	IndexName      string
	NodeLabel      string
	TextProperties []string
}

// PopulateEmbeddingsParams describes which nodes to embed and with what.
// Nodes of the given label that have text but no embedding yet are embedded
// in batches of BatchSize.
type PopulateEmbeddingsParams struct {
	NodeLabel         string
	TextProperties    []string
	EmbeddingProperty string
	Embedder          ai.EmbeddingClient
	BatchSize         int
}

// SimilaritySearchParams defines a vector search against an existing index.
type SimilaritySearchParams struct {
	IndexName    string
	Embedding    []float32
	TextProperty string
	K            int
}

// HybridSearchParams defines a combined vector and keyword search. Results
// from both indexes are merged with max-normalized scores.
type HybridSearchParams struct {
	VectorIndex  string
	KeywordIndex string
	Embedding    []float32
	Query        string
	TextProperty string
	K            int
}

// GraphStore defines the interface for persisting extracted graph documents,
// maintaining search indexes over them and executing read queries for
// question answering.
type GraphStore interface {
	Close(ctx context.Context) error

	// Clear removes all nodes and relationships from the graph.
	Clear(ctx context.Context) error

	// AddGraphDocuments persists extracted graph documents. When
	// includeSource is true, a source node is created per chunk and linked
	// to every entity it mentions.
	AddGraphDocuments(ctx context.Context, docs []graph.Document, includeSource bool) error

	CreateVectorIndex(ctx context.Context, params VectorIndexParams) error
	CreateFulltextIndex(ctx context.Context, params FulltextIndexParams) error
	PopulateEmbeddings(ctx context.Context, params PopulateEmbeddingsParams) error

	SimilaritySearch(ctx context.Context, params SimilaritySearchParams) ([]SearchResult, error)
	HybridSearch(ctx context.Context, params HybridSearchParams) ([]SearchResult, error)

	// Schema returns a textual description of node labels, relationship
	// types and their properties, suitable for query generation prompts.
	Schema(ctx context.Context) (string, error)

	// Execute runs a Cypher query and returns the result rows.
	Execute(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
