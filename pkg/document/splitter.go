package document

import (
	"fmt"

	"github.com/okralabs/graphive/internal/util"

	"github.com/pkoukk/tiktoken-go"
)

const tokenEncoder = "o200k_base"

// Splitter modes. Character mode measures chunk size in runes, token mode
// measures it in model tokens.
const (
	ModeCharacter = "char"
	ModeToken     = "token"
)

// Splitter cuts text into fixed-size chunks with a configurable overlap
// between consecutive chunks. Chunks are contiguous: each one starts
// exactly ChunkSize-ChunkOverlap after the previous one.
type Splitter struct {
	mode         string
	chunkSize    int
	chunkOverlap int
	encoder      *tiktoken.Tiktoken
}

// NewSplitterParams defines the configuration for creating a Splitter.
// Mode defaults to ModeCharacter.
type NewSplitterParams struct {
	Mode         string
	ChunkSize    int
	ChunkOverlap int
}

// NewSplitter creates a splitter. ChunkOverlap must be smaller than
// ChunkSize, otherwise chunking would never advance.
func NewSplitter(params NewSplitterParams) (*Splitter, error) {
	if params.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", params.ChunkSize)
	}
	if params.ChunkOverlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", params.ChunkOverlap)
	}
	if params.ChunkOverlap >= params.ChunkSize {
		return nil, fmt.Errorf(
			"chunk overlap %d must be smaller than chunk size %d",
			params.ChunkOverlap, params.ChunkSize,
		)
	}

	mode := params.Mode
	if mode == "" {
		mode = ModeCharacter
	}

	s := &Splitter{
		mode:         mode,
		chunkSize:    params.ChunkSize,
		chunkOverlap: params.ChunkOverlap,
	}

	switch mode {
	case ModeCharacter:
	case ModeToken:
		enc, err := tiktoken.GetEncoding(tokenEncoder)
		if err != nil {
			return nil, fmt.Errorf("failed to load token encoder: %w", err)
		}
		s.encoder = enc
	default:
		return nil, fmt.Errorf("unknown split mode %q", mode)
	}

	return s, nil
}

// Split cuts text into overlapping chunks. Empty text yields no chunks,
// text shorter than the chunk size yields exactly one.
func (s *Splitter) Split(text string) []string {
	if s.mode == ModeToken {
		return s.splitTokens(text)
	}
	return s.splitRunes(text)
}

func (s *Splitter) splitRunes(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.chunkSize - s.chunkOverlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := util.Min(start+s.chunkSize, len(runes))
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}

	return chunks
}

func (s *Splitter) splitTokens(text string) []string {
	tokens := s.encoder.Encode(text, nil, nil)
	if len(tokens) == 0 {
		return nil
	}

	step := s.chunkSize - s.chunkOverlap
	var chunks []string
	for start := 0; start < len(tokens); start += step {
		end := util.Min(start+s.chunkSize, len(tokens))
		chunks = append(chunks, s.encoder.Decode(tokens[start:end]))
		if end == len(tokens) {
			break
		}
	}

	return chunks
}
