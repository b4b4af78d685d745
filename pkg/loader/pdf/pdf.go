package pdf

import (
	"context"
	"sync"

	"github.com/okralabs/graphive/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// PDFLoader extracts plain text from PDF files. The raw bytes are fetched
// through an inner loader so the same parser works for local and remote
// sources.
type PDFLoader struct {
	loader loader.FileLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewPDFLoader creates a PDF loader that fetches raw bytes through the given
// inner loader.
func NewPDFLoader(inner loader.FileLoader) *PDFLoader {
	return &PDFLoader{
		loader: inner,
		cache:  make(map[string][]byte),
	}
}

// FileText extracts text from a PDF file. Parsed results are cached.
func (l *PDFLoader) FileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
	key := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		content, err := l.loader.FileText(ctx, file)
		if err != nil {
			return nil, err
		}

		text, err := parsePDF(ctx, content)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = text
		l.cacheMu.Unlock()

		return text, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
