// Package pagetext provides page-by-page text for statement documents.
package pagetext

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrDocumentUnreadable means the document cannot be opened or its pages
	// counted. It is fatal for that document.
	ErrDocumentUnreadable = errors.New("document unreadable")
	// ErrPageExtraction means one page yielded no text. Only that page is lost.
	ErrPageExtraction = errors.New("page extraction failed")
)

// Source yields the text of a document one page at a time. Page indexes are
// zero-based. Implementations must be safe for concurrent PageText calls.
type Source interface {
	PageCount() (int, error)
	PageText(index int) (string, error)
	Close() error
}

// Opener opens a document at path.
type Opener func(path string) (Source, error)

// Registry maps file extensions to openers.
type Registry struct {
	openers map[string]Opener
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{openers: make(map[string]Opener)}
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Register adds an opener for ext. Panics on duplicate extension.
func (r *Registry) Register(ext string, open Opener) {
	key := normalizeExt(ext)
	if _, ok := r.openers[key]; ok {
		panic("duplicate page text extension: " + key)
	}
	r.openers[key] = open
}

// Get returns the opener for ext, or nil.
func (r *Registry) Get(ext string) Opener {
	return r.openers[normalizeExt(ext)]
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.openers))
	for ext := range r.openers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Open picks an opener by the extension of path.
func (r *Registry) Open(path string) (Source, error) {
	open := r.Get(filepath.Ext(path))
	if open == nil {
		return nil, fmt.Errorf("%w: no reader for %q", ErrDocumentUnreadable, filepath.Ext(path))
	}
	return open(path)
}

// DefaultRegistry returns a registry with the PDF and text sources.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("pdf", OpenPDF)
	r.Register("txt", OpenText)
	return r
}
