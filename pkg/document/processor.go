package document

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/okralabs/graphive/internal/util"
	"github.com/okralabs/graphive/pkg/loader"
	"github.com/okralabs/graphive/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrNoDocuments is returned when the input location yields no readable
// documents at all.
var ErrNoDocuments = errors.New("no readable documents found")

// KeyLister lists object keys under a prefix. It is implemented by the S3
// file loader for inputs of the form s3://bucket/prefix.
type KeyLister interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// Processor discovers input documents, loads them through format-specific
// loaders, cleans the text and splits it into chunks. Files that fail to
// load are skipped with a warning; the run only fails when nothing could be
// read at all.
type Processor struct {
	splitter *Splitter
	loaders  map[string]loader.FileLoader
	lister   KeyLister
}

// NewProcessorParams defines the configuration for creating a Processor.
// Loaders maps lowercased file extensions (".pdf", ".txt", ...) to the
// loader handling that format. Lister is only required for s3:// inputs.
type NewProcessorParams struct {
	Splitter *Splitter
	Loaders  map[string]loader.FileLoader
	Lister   KeyLister
}

// NewProcessor creates a document processor.
func NewProcessor(params NewProcessorParams) *Processor {
	return &Processor{
		splitter: params.Splitter,
		loaders:  params.Loaders,
		lister:   params.Lister,
	}
}

// Process loads every supported document under input and returns the
// resulting chunks. Input is either a local directory or an s3://bucket/prefix
// location.
func (p *Processor) Process(ctx context.Context, input string) ([]Chunk, error) {
	paths, err := p.discover(ctx, input)
	if err != nil {
		return nil, err
	}

	var chunks []Chunk
	loaded := 0

	for _, path := range paths {
		ext := strings.ToLower(filepath.Ext(path))
		ld, ok := p.loaders[ext]
		if !ok {
			logger.Debug("[Document] Skipping unsupported file", "path", path)
			continue
		}

		fileChunks, err := p.processFile(ctx, path, ld)
		if err != nil {
			logger.Warn("[Document] Skipping unreadable file", "path", path, "error", err)
			continue
		}

		loaded++
		chunks = append(chunks, fileChunks...)
	}

	if loaded == 0 {
		return nil, ErrNoDocuments
	}

	logger.Info("[Document] Processed documents", "documents", loaded, "chunks", len(chunks))
	return chunks, nil
}

func (p *Processor) processFile(
	ctx context.Context,
	path string,
	ld loader.FileLoader,
) ([]Chunk, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	file := loader.NewSourceFile(loader.NewSourceFileParams{
		ID:     id,
		Path:   path,
		Name:   filepath.Base(path),
		Loader: ld,
	})

	raw, err := file.Text(ctx)
	if err != nil {
		return nil, err
	}

	text := util.CleanText(string(raw))
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("document is empty after cleaning")
	}

	pieces := p.splitter.Split(text)
	chunks := make([]Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunk, err := NewChunk(piece, file.Name, i)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	return chunks, nil
}

// discover resolves the input location into a list of file paths or object
// keys.
func (p *Processor) discover(ctx context.Context, input string) ([]string, error) {
	bucketPath, isS3 := strings.CutPrefix(input, "s3://")
	if !isS3 {
		return listLocalFiles(input)
	}

	if p.lister == nil {
		return nil, fmt.Errorf("no object store configured for input %q", input)
	}

	// Strip the bucket segment, the lister is already bound to a bucket.
	prefix := ""
	if _, rest, ok := strings.Cut(bucketPath, "/"); ok {
		prefix = rest
	}

	keys, err := p.lister.ListKeys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	return keys, nil
}

func listLocalFiles(dir string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk input directory: %w", err)
	}

	return paths, nil
}
