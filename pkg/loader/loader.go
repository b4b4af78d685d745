package loader

import (
	"context"
)

// SourceFile represents a single input document that can be loaded into raw
// text for chunking and graph extraction. The actual content is retrieved
// via the associated FileLoader, which may read from disk, object storage,
// or a format-specific parser.
type SourceFile struct {
	ID     string
	Path   string
	Name   string
	Loader FileLoader
}

// NewSourceFileParams defines the input parameters for creating a new
// SourceFile instance.
type NewSourceFileParams struct {
	ID     string
	Path   string
	Name   string
	Loader FileLoader
}

// NewSourceFile creates a SourceFile from the given parameters.
func NewSourceFile(params NewSourceFileParams) SourceFile {
	return SourceFile{
		ID:     params.ID,
		Path:   params.Path,
		Name:   params.Name,
		Loader: params.Loader,
	}
}

// Text retrieves the raw text content of the file using its Loader.
func (f *SourceFile) Text(ctx context.Context) ([]byte, error) {
	return f.Loader.FileText(ctx, *f)
}

// FileLoader defines the interface for loading the contents of a SourceFile.
// Implementations may load files from disk, cloud storage, or wrap another
// loader with a format-specific parser.
type FileLoader interface {
	FileText(ctx context.Context, file SourceFile) ([]byte, error)
}

// CacheKey returns the cache key for a file, shared by all caching loaders.
func CacheKey(file SourceFile) string {
	return file.ID + ":" + file.Path
}
