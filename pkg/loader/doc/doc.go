package doc

import (
	"context"
	"sync"

	"github.com/okralabs/graphive/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// DocLoader extracts plain text from Word documents (.docx) by parsing the
// document XML directly. Raw bytes are fetched through an inner loader.
type DocLoader struct {
	loader loader.FileLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewDocLoader creates a document loader that extracts text from docx XML.
func NewDocLoader(inner loader.FileLoader) *DocLoader {
	return &DocLoader{
		loader: inner,
		cache:  make(map[string][]byte),
	}
}

// FileText extracts text content from a Word document. Parsed results are
// cached.
func (l *DocLoader) FileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
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

		text, err := parseDocx(content)
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
