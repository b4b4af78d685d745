// Package pipeline sequences a full ingestion and query run: load and chunk
// documents, extract graph structure, persist it, build the search indexes
// and optionally answer a question against the resulting graph.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/okralabs/graphive/internal/config"
	"github.com/okralabs/graphive/pkg/ai"
	"github.com/okralabs/graphive/pkg/document"
	"github.com/okralabs/graphive/pkg/graph"
	"github.com/okralabs/graphive/pkg/logger"
	"github.com/okralabs/graphive/pkg/query"
	"github.com/okralabs/graphive/pkg/store"
)

// Processor turns an input location into document chunks.
type Processor interface {
	Process(ctx context.Context, input string) ([]document.Chunk, error)
}

// Extractor turns chunks into graph documents.
type Extractor interface {
	Extract(ctx context.Context, chunks []document.Chunk) ([]graph.Document, error)
}

// Answerer answers a question against the stored graph.
type Answerer interface {
	Answer(ctx context.Context, question string) (query.Result, error)
}

// Deps are the pipeline's injected dependencies. Store must already be
// connected; Answerer is only required when a question is asked. Out
// receives the user-facing question answering output.
type Deps struct {
	Processor Processor
	Extractor Extractor
	Store     store.GraphStore
	Embedder  ai.EmbeddingClient
	Answerer  Answerer
	Out       io.Writer
}

// Run executes the pipeline with the given options.
func Run(ctx context.Context, opts config.Options, deps Deps) error {
	chunks, err := deps.Processor.Process(ctx, opts.InputDir)
	if err != nil {
		return fmt.Errorf("failed to process documents: %w", err)
	}

	if opts.ClearExisting {
		logger.Info("[Pipeline] Clearing existing graph")
		if err := deps.Store.Clear(ctx); err != nil {
			return err
		}
	}

	docs, err := deps.Extractor.Extract(ctx, chunks)
	if err != nil {
		return fmt.Errorf("failed to extract graph: %w", err)
	}

	if len(docs) > 0 {
		if err := deps.Store.AddGraphDocuments(ctx, docs, true); err != nil {
			return err
		}
	} else {
		logger.Warn("[Pipeline] No graph documents extracted, nothing to store")
	}

	if err := buildIndexes(ctx, opts, deps); err != nil {
		return err
	}

	if opts.Question != "" {
		return answerQuestion(ctx, opts, deps)
	}

	return nil
}

func buildIndexes(ctx context.Context, opts config.Options, deps Deps) error {
	err := deps.Store.CreateVectorIndex(ctx, store.VectorIndexParams{
		IndexName:         opts.VectorIndex,
		NodeLabel:         opts.NodeLabel,
		EmbeddingProperty: opts.EmbeddingProperty,
		Dimension:         opts.EmbeddingDim,
	})
	if err != nil {
		return err
	}

	err = deps.Store.CreateFulltextIndex(ctx, store.FulltextIndexParams{
		IndexName:      opts.KeywordIndex,
		NodeLabel:      opts.NodeLabel,
		TextProperties: []string{opts.TextProperty},
	})
	if err != nil {
		return err
	}

	return deps.Store.PopulateEmbeddings(ctx, store.PopulateEmbeddingsParams{
		NodeLabel:         opts.NodeLabel,
		TextProperties:    []string{opts.TextProperty},
		EmbeddingProperty: opts.EmbeddingProperty,
		Embedder:          deps.Embedder,
	})
}

// answerQuestion retrieves the top matching chunks as context and answers
// the question via graph query translation. A query that the graph cannot
// execute is reported but does not fail the run.
func answerQuestion(ctx context.Context, opts config.Options, deps Deps) error {
	results, err := searchContext(ctx, opts, deps)
	if err != nil {
		logger.Warn("[Pipeline] Context search failed", "error", err)
	} else {
		for _, result := range results {
			fmt.Fprintf(deps.Out, "[context %.3f] %s\n", result.Score, result.Text)
		}
	}

	answer, err := deps.Answerer.Answer(ctx, opts.Question)
	if err != nil {
		var execErr *query.ExecutionError
		if errors.As(err, &execErr) {
			logger.Warn("[Pipeline] Generated query failed",
				"query", execErr.Query, "error", execErr.Err)
			fmt.Fprintln(deps.Out, "Unable to answer the question with the current graph.")
			return nil
		}
		return err
	}

	fmt.Fprintln(deps.Out, answer)
	return nil
}

func searchContext(ctx context.Context, opts config.Options, deps Deps) ([]store.SearchResult, error) {
	embedding, err := deps.Embedder.GenerateEmbedding(ctx, opts.Question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	return deps.Store.HybridSearch(ctx, store.HybridSearchParams{
		VectorIndex:  opts.VectorIndex,
		KeywordIndex: opts.KeywordIndex,
		Embedding:    embedding,
		Query:        opts.Question,
		TextProperty: opts.TextProperty,
		K:            opts.TopK,
	})
}
