// Package neo4j implements the graph store on top of a Neo4j database.
// Entities are merged by their id property, so re-ingesting the same entity
// updates it instead of duplicating it.
package neo4j

import (
	"context"
	"fmt"

	"github.com/okralabs/graphive/pkg/graph"
	"github.com/okralabs/graphive/pkg/logger"
	"github.com/okralabs/graphive/pkg/store"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const defaultSourceLabel = "Document"

// Store is the Neo4j-backed implementation of store.GraphStore.
type Store struct {
	driver      neo4j.DriverWithContext
	database    string
	sourceLabel string
}

// NewStoreParams defines the connection parameters for creating a Store.
// SourceLabel is the node label used for chunk source nodes and defaults to
// "Document".
type NewStoreParams struct {
	URI         string
	Username    string
	Password    string
	Database    string
	SourceLabel string
}

// NewStore connects to Neo4j and verifies connectivity before returning.
func NewStore(ctx context.Context, params NewStoreParams) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(
		params.URI,
		neo4j.BasicAuth(params.Username, params.Password, ""),
	)
	if err != nil {
		return nil, &store.StoreError{Op: "create driver", Err: err}
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, &store.StoreError{Op: "connect", Err: err}
	}

	sourceLabel := params.SourceLabel
	if sourceLabel == "" {
		sourceLabel = defaultSourceLabel
	}

	return &Store{
		driver:      driver,
		database:    params.Database,
		sourceLabel: sourceLabel,
	}, nil
}

// Close releases the underlying driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// Clear removes all nodes and relationships from the graph.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.run(ctx, neo4j.AccessModeWrite, clearQuery, nil)
	if err != nil {
		return &store.StoreError{Op: "clear", Err: err}
	}
	return nil
}

// AddGraphDocuments persists extracted graph documents. Nodes are merged by
// id, relationships by (source, target, type). A document that fails to
// persist is skipped with a warning.
func (s *Store) AddGraphDocuments(
	ctx context.Context,
	docs []graph.Document,
	includeSource bool,
) error {
	stored := 0
	for _, doc := range docs {
		if err := s.addGraphDocument(ctx, doc, includeSource); err != nil {
			logger.Warn("[Store] Skipping graph document",
				"chunk_id", doc.Source.ID, "source", doc.Source.Source, "error", err)
			continue
		}
		stored++
	}

	if stored == 0 && len(docs) > 0 {
		return &store.StoreError{
			Op:  "add graph documents",
			Err: fmt.Errorf("failed to store any of %d documents", len(docs)),
		}
	}

	logger.Info("[Store] Stored graph documents", "documents", stored)
	return nil
}

func (s *Store) addGraphDocument(ctx context.Context, doc graph.Document, includeSource bool) error {
	for label, rows := range nodeRowsByLabel(doc.Nodes) {
		_, err := s.run(ctx, neo4j.AccessModeWrite, mergeNodesQuery(label), map[string]any{
			"rows": rows,
		})
		if err != nil {
			return fmt.Errorf("failed to merge nodes with label %s: %w", label, err)
		}
	}

	for relType, rows := range relationshipRowsByType(doc.Relationships) {
		_, err := s.run(ctx, neo4j.AccessModeWrite, mergeRelationshipsQuery(relType), map[string]any{
			"rows": rows,
		})
		if err != nil {
			return fmt.Errorf("failed to merge relationships of type %s: %w", relType, err)
		}
	}

	if !includeSource {
		return nil
	}

	nodeIDs := make([]any, 0, len(doc.Nodes))
	for _, node := range doc.Nodes {
		nodeIDs = append(nodeIDs, node.ID)
	}

	_, err := s.run(ctx, neo4j.AccessModeWrite, mergeSourceQuery(s.sourceLabel), map[string]any{
		"id":      doc.Source.ID,
		"text":    doc.Source.Text,
		"source":  doc.Source.Source,
		"seq":     doc.Source.Index,
		"nodeIds": nodeIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to merge source node: %w", err)
	}

	return nil
}

// Execute runs a Cypher query in a read session and returns the result rows.
func (s *Store) Execute(
	ctx context.Context,
	query string,
	params map[string]any,
) ([]map[string]any, error) {
	return s.run(ctx, neo4j.AccessModeRead, query, params)
}

func (s *Store) run(
	ctx context.Context,
	mode neo4j.AccessMode,
	query string,
	params map[string]any,
) ([]map[string]any, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	records, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.AsMap())
	}
	return rows, nil
}

func nodeRowsByLabel(nodes []graph.Node) map[string][]any {
	grouped := make(map[string][]any)
	for _, node := range nodes {
		props := node.Properties
		if props == nil {
			props = map[string]any{}
		}
		label := node.Type
		if label == "" {
			label = "Entity"
		}
		grouped[label] = append(grouped[label], map[string]any{
			"id":    node.ID,
			"props": props,
		})
	}
	return grouped
}

func relationshipRowsByType(rels []graph.Relationship) map[string][]any {
	grouped := make(map[string][]any)
	for _, rel := range rels {
		props := rel.Properties
		if props == nil {
			props = map[string]any{}
		}
		grouped[rel.Type] = append(grouped[rel.Type], map[string]any{
			"source": rel.SourceID,
			"target": rel.TargetID,
			"props":  props,
		})
	}
	return grouped
}
