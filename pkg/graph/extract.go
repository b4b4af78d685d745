package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/okralabs/graphive/internal/util"
	"github.com/okralabs/graphive/pkg/ai"
	"github.com/okralabs/graphive/pkg/document"
	"github.com/okralabs/graphive/pkg/logger"
)

var defaultNodeTypes = []string{
	"ORGANIZATION", "PERSON", "LOCATION", "CONCEPT",
	"CREATIVE_WORK", "DATE", "PRODUCT", "EVENT",
}

type extractNode struct {
	Name        string `json:"name" jsonschema_description:"Name of the entity, all letters capitalized"`
	Type        string `json:"type" jsonschema_description:"One of the provided entity types"`
	Description string `json:"description" jsonschema_description:"Comprehensive description of the entity's attributes, activities and information provided by the source"`
}

type extractRelationship struct {
	Source      string `json:"source" jsonschema_description:"Name of the source entity, exactly as extracted"`
	Target      string `json:"target" jsonschema_description:"Name of the target entity, exactly as extracted"`
	Type        string `json:"type" jsonschema_description:"Relationship type in capital letters with underscores"`
	Description string `json:"description" jsonschema_description:"Explanation as to why the source and target entity are related"`
}

type extractResponse struct {
	Nodes         []extractNode         `json:"nodes" jsonschema_description:"Entities identified in the text"`
	Relationships []extractRelationship `json:"relationships" jsonschema_description:"Relationships identified in the text"`
}

// Extractor turns document chunks into graph documents via structured model
// output. Allowed node and relationship types constrain both the prompt and
// the post-filtering of the model response.
type Extractor struct {
	client                 ai.ChatClient
	allowedNodes           []string
	allowedRelationships   []string
	nodeProperties         bool
	relationshipProperties bool
	maxTries               int
}

// NewExtractorParams defines the configuration for creating an Extractor.
// Empty allow-lists permit the default entity types and any relationship
// type. NodeProperties and RelationshipProperties control whether extracted
// descriptions are kept as properties. MaxTries is the number of model
// attempts per chunk and defaults to 1, a single attempt without retries.
type NewExtractorParams struct {
	Client                 ai.ChatClient
	AllowedNodes           []string
	AllowedRelationships   []string
	NodeProperties         bool
	RelationshipProperties bool
	MaxTries               int
}

// NewExtractor creates an extractor.
func NewExtractor(params NewExtractorParams) *Extractor {
	maxTries := params.MaxTries
	if maxTries <= 0 {
		maxTries = 1
	}

	return &Extractor{
		client:                 params.Client,
		allowedNodes:           params.AllowedNodes,
		allowedRelationships:   params.AllowedRelationships,
		nodeProperties:         params.NodeProperties,
		relationshipProperties: params.RelationshipProperties,
		maxTries:               maxTries,
	}
}

// Extract processes all chunks and returns one graph document per chunk that
// could be extracted. A chunk whose attempts all fail is skipped with a
// warning; the call only fails when the context is canceled.
func (e *Extractor) Extract(ctx context.Context, chunks []document.Chunk) ([]Document, error) {
	docs := make([]Document, 0, len(chunks))

	for _, chunk := range chunks {
		doc, err := util.RetryWithContext(ctx, e.maxTries, func(ctx context.Context) (Document, error) {
			return e.extractChunk(ctx, chunk)
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("[Graph] Skipping chunk after failed extraction",
				"chunk_id", chunk.ID, "source", chunk.Source, "error", err)
			continue
		}

		docs = append(docs, doc)
	}

	logger.Info("[Graph] Extracted graph documents",
		"chunks", len(chunks), "documents", len(docs))
	return docs, nil
}

func (e *Extractor) extractChunk(ctx context.Context, chunk document.Chunk) (Document, error) {
	nodeTypes := e.allowedNodes
	if len(nodeTypes) == 0 {
		nodeTypes = defaultNodeTypes
	}
	relTypes := "any relationship type"
	if len(e.allowedRelationships) > 0 {
		relTypes = strings.Join(e.allowedRelationships, ",")
	}

	systemPrompt := fmt.Sprintf(
		ai.ExtractPrompt,
		strings.Join(nodeTypes, ","),
		chunk.Source,
		strings.Join(nodeTypes, ","),
		relTypes,
	)

	var res extractResponse
	err := e.client.GenerateCompletionWithFormat(
		ctx,
		"extract_graph",
		"Extract entities and relationships from a provided document.",
		chunk.Text,
		&res,
		ai.WithSystemPrompts(systemPrompt),
	)
	if err != nil {
		return Document{}, err
	}

	return e.buildDocument(chunk, res), nil
}

// buildDocument normalizes the raw model response into a graph document.
// Entity names are uppercased to form stable merge keys, and relationships
// referencing unknown entities are dropped.
func (e *Extractor) buildDocument(chunk document.Chunk, res extractResponse) Document {
	doc := Document{Source: chunk}
	seen := make(map[string]bool)

	for _, node := range res.Nodes {
		id := NodeID(node.Name)
		if id == "" || seen[id] {
			continue
		}
		if !typeAllowed(node.Type, e.allowedNodes) {
			continue
		}
		seen[id] = true

		n := Node{ID: id, Type: node.Type}
		if e.nodeProperties && node.Description != "" {
			n.Properties = map[string]any{"description": node.Description}
		}
		doc.Nodes = append(doc.Nodes, n)
	}

	for _, rel := range res.Relationships {
		sourceID := NodeID(rel.Source)
		targetID := NodeID(rel.Target)
		if !seen[sourceID] || !seen[targetID] {
			continue
		}
		relType := RelationshipType(rel.Type)
		if relType == "" || !typeAllowed(relType, e.allowedRelationships) {
			continue
		}

		r := Relationship{
			SourceID: sourceID,
			TargetID: targetID,
			Type:     relType,
		}
		if e.relationshipProperties && rel.Description != "" {
			r.Properties = map[string]any{"description": rel.Description}
		}
		doc.Relationships = append(doc.Relationships, r)
	}

	return doc
}

// NodeID derives the canonical node identifier from an entity name.
func NodeID(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// RelationshipType normalizes a relationship type to capital letters with
// underscores.
func RelationshipType(relType string) string {
	relType = strings.ToUpper(strings.TrimSpace(relType))
	return strings.ReplaceAll(relType, " ", "_")
}

func typeAllowed(t string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(t, a) {
			return true
		}
	}
	return false
}
