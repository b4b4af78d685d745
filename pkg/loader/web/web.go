package web

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/okralabs/graphive/pkg/loader"

	"codeberg.org/readeck/go-readability/v2"
	"golang.org/x/sync/singleflight"
)

// HTMLLoader extracts the readable main content from HTML documents using
// readability. Raw bytes are fetched through an inner loader, so the same
// extraction works for local .html files and objects in remote storage.
type HTMLLoader struct {
	loader loader.FileLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewHTMLLoader creates an HTML loader that fetches raw bytes through the
// given inner loader.
func NewHTMLLoader(inner loader.FileLoader) *HTMLLoader {
	return &HTMLLoader{
		loader: inner,
		cache:  make(map[string][]byte),
	}
}

// FileText extracts the readable article text from an HTML document.
func (l *HTMLLoader) FileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
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

		// readability resolves relative links against the document URL.
		docURL := &url.URL{Scheme: "file", Path: file.Path}
		article, err := readability.FromReader(bytes.NewReader(content), docURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse html: %w", err)
		}

		var builder strings.Builder
		if err := article.RenderText(&builder); err != nil {
			return nil, fmt.Errorf("failed to render article text: %w", err)
		}
		text := []byte(builder.String())

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
