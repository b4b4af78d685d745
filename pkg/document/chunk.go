// Package document turns raw input files into cleaned, overlapping text
// chunks ready for graph extraction and indexing.
package document

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Chunk is a contiguous piece of a source document. Index is the zero-based
// position of the chunk within its document, Source is the document name the
// chunk came from.
type Chunk struct {
	ID     string
	Text   string
	Source string
	Index  int
}

// NewChunk creates a chunk with a generated ID.
func NewChunk(text string, source string, index int) (Chunk, error) {
	id, err := gonanoid.New()
	if err != nil {
		return Chunk{}, err
	}

	return Chunk{
		ID:     id,
		Text:   text,
		Source: source,
		Index:  index,
	}, nil
}
