package neo4j

import (
	"context"
	"fmt"
	"sort"

	"github.com/okralabs/graphive/pkg/ai"
	"github.com/okralabs/graphive/pkg/logger"
	"github.com/okralabs/graphive/pkg/store"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const defaultEmbedBatchSize = 100

// CreateVectorIndex creates the vector index if it does not exist yet.
func (s *Store) CreateVectorIndex(ctx context.Context, params store.VectorIndexParams) error {
	query := vectorIndexQuery(
		params.IndexName,
		params.NodeLabel,
		params.EmbeddingProperty,
		params.Dimension,
	)
	if _, err := s.run(ctx, neo4j.AccessModeWrite, query, nil); err != nil {
		return &store.StoreError{Op: "create vector index " + params.IndexName, Err: err}
	}
	return nil
}

// CreateFulltextIndex creates the keyword index if it does not exist yet.
func (s *Store) CreateFulltextIndex(ctx context.Context, params store.FulltextIndexParams) error {
	query := fulltextIndexQuery(params.IndexName, params.NodeLabel, params.TextProperties)
	if _, err := s.run(ctx, neo4j.AccessModeWrite, query, nil); err != nil {
		return &store.StoreError{Op: "create fulltext index " + params.IndexName, Err: err}
	}
	return nil
}

// PopulateEmbeddings embeds every node of the configured label that has text
// but no embedding yet, in batches. The node text is the concatenation of
// the configured text properties.
func (s *Store) PopulateEmbeddings(ctx context.Context, params store.PopulateEmbeddingsParams) error {
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultEmbedBatchSize
	}

	props := make([]any, 0, len(params.TextProperties))
	for _, p := range params.TextProperties {
		props = append(props, p)
	}

	fetchQuery := missingEmbeddingsQuery(params.NodeLabel, params.EmbeddingProperty)
	setQuery := setEmbeddingsQuery(params.NodeLabel)

	total := 0
	for {
		rows, err := s.run(ctx, neo4j.AccessModeRead, fetchQuery, map[string]any{
			"props": props,
			"limit": batchSize,
		})
		if err != nil {
			return &store.StoreError{Op: "fetch nodes without embedding", Err: err}
		}
		if len(rows) == 0 {
			break
		}

		updates, err := embeddingUpdates(ctx, rows, params.Embedder)
		if err != nil {
			return &store.StoreError{Op: "embed nodes", Err: err}
		}
		if len(updates) == 0 {
			// Every remaining node lacks a usable id; another fetch would
			// select the same nodes again.
			break
		}

		_, err = s.run(ctx, neo4j.AccessModeWrite, setQuery, map[string]any{
			"rows": updates,
			"prop": params.EmbeddingProperty,
		})
		if err != nil {
			return &store.StoreError{Op: "store embeddings", Err: err}
		}

		total += len(updates)
	}

	logger.Info("[Store] Populated embeddings", "nodes", total, "label", params.NodeLabel)
	return nil
}

// embeddingUpdates embeds the fetched rows into the parameter shape of the
// embedding write query. Rows whose id is absent or not a non-empty string
// are skipped, the write query could never match them.
func embeddingUpdates(
	ctx context.Context,
	rows []map[string]any,
	embedder ai.EmbeddingClient,
) ([]any, error) {
	updates := make([]any, 0, len(rows))
	for _, row := range rows {
		id, ok := row["id"].(string)
		if !ok || id == "" {
			logger.Warn("[Store] Skipping node without usable id for embedding")
			continue
		}
		text, _ := row["text"].(string)

		embedding, err := embedder.GenerateEmbedding(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed node %s: %w", id, err)
		}

		updates = append(updates, map[string]any{
			"id":        id,
			"embedding": embeddingParam(embedding),
		})
	}
	return updates, nil
}

// SimilaritySearch runs a vector search against an existing index.
func (s *Store) SimilaritySearch(
	ctx context.Context,
	params store.SimilaritySearchParams,
) ([]store.SearchResult, error) {
	rows, err := s.run(ctx, neo4j.AccessModeRead, vectorSearchQuery, map[string]any{
		"index":     params.IndexName,
		"k":         params.K,
		"embedding": embeddingParam(params.Embedding),
		"prop":      params.TextProperty,
	})
	if err != nil {
		return nil, &store.StoreError{Op: "vector search", Err: err}
	}

	return toSearchResults(rows), nil
}

// HybridSearch runs the vector and keyword searches and merges the results.
// Scores from each index are normalized by that index's best score, results
// found by both keep the higher normalized score.
func (s *Store) HybridSearch(
	ctx context.Context,
	params store.HybridSearchParams,
) ([]store.SearchResult, error) {
	vectorRows, err := s.run(ctx, neo4j.AccessModeRead, vectorSearchQuery, map[string]any{
		"index":     params.VectorIndex,
		"k":         params.K,
		"embedding": embeddingParam(params.Embedding),
		"prop":      params.TextProperty,
	})
	if err != nil {
		return nil, &store.StoreError{Op: "vector search", Err: err}
	}

	keywordRows, err := s.run(ctx, neo4j.AccessModeRead, fulltextSearchQuery, map[string]any{
		"index": params.KeywordIndex,
		"query": params.Query,
		"k":     params.K,
		"prop":  params.TextProperty,
	})
	if err != nil {
		return nil, &store.StoreError{Op: "keyword search", Err: err}
	}

	merged := mergeSearchResults(toSearchResults(vectorRows), toSearchResults(keywordRows))
	if params.K > 0 && len(merged) > params.K {
		merged = merged[:params.K]
	}
	return merged, nil
}

func mergeSearchResults(vector []store.SearchResult, keyword []store.SearchResult) []store.SearchResult {
	byID := make(map[string]store.SearchResult)

	for _, set := range [][]store.SearchResult{normalizeScores(vector), normalizeScores(keyword)} {
		for _, result := range set {
			if existing, ok := byID[result.ID]; !ok || result.Score > existing.Score {
				byID[result.ID] = result
			}
		}
	}

	merged := make([]store.SearchResult, 0, len(byID))
	for _, result := range byID {
		merged = append(merged, result)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].ID < merged[j].ID
	})
	return merged
}

func normalizeScores(results []store.SearchResult) []store.SearchResult {
	max := 0.0
	for _, r := range results {
		if r.Score > max {
			max = r.Score
		}
	}
	if max == 0 {
		return results
	}

	normalized := make([]store.SearchResult, 0, len(results))
	for _, r := range results {
		r.Score = r.Score / max
		normalized = append(normalized, r)
	}
	return normalized
}

func toSearchResults(rows []map[string]any) []store.SearchResult {
	results := make([]store.SearchResult, 0, len(rows))
	for _, row := range rows {
		id, _ := row["id"].(string)
		text, _ := row["text"].(string)
		score, _ := row["score"].(float64)
		results = append(results, store.SearchResult{ID: id, Text: text, Score: score})
	}
	return results
}

// embeddingParam converts an embedding to the float64 list the driver
// serializes natively.
func embeddingParam(embedding []float32) []float64 {
	out := make([]float64, len(embedding))
	for i, v := range embedding {
		out[i] = float64(v)
	}
	return out
}
