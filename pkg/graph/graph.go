// Package graph extracts knowledge graph structure from document chunks
// using a language model.
package graph

import (
	"github.com/okralabs/graphive/pkg/document"
)

// Node is a single entity in the knowledge graph. The ID is the entity name
// in capital letters, which also acts as the merge key when persisting.
type Node struct {
	ID         string
	Type       string
	Properties map[string]any
}

// Relationship connects two nodes by their IDs.
type Relationship struct {
	SourceID   string
	TargetID   string
	Type       string
	Properties map[string]any
}

// Document is the graph extracted from a single chunk, together with the
// chunk it came from so stores can link entities back to their source text.
type Document struct {
	Nodes         []Node
	Relationships []Relationship
	Source        document.Chunk
}
