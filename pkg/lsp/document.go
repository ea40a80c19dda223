package lsp

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/grindlemire/hamlfmt/internal/haml"
)

// Document represents an open .haml file with its parsed state.
type Document struct {
	URI     string
	Content string
	Version int
	Root    *haml.Node
	Errors  []*haml.Error
}

// DocumentManager tracks all open documents.
type DocumentManager struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentManager creates a new document manager.
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		docs: make(map[string]*Document),
	}
}

// Open opens a new document and parses it.
func (dm *DocumentManager) Open(uri, content string, version int) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc := &Document{
		URI:     uri,
		Content: content,
		Version: version,
	}

	dm.parseDocument(doc)
	dm.docs[uri] = doc
	return doc
}

// Update replaces the content of a document, opening it if needed.
func (dm *DocumentManager) Update(uri, content string, version int) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, ok := dm.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		dm.docs[uri] = doc
	}
	doc.Content = content
	doc.Version = version

	dm.parseDocument(doc)
	return doc
}

// Close closes a document.
func (dm *DocumentManager) Close(uri string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	delete(dm.docs, uri)
}

// Get retrieves a document by URI.
func (dm *DocumentManager) Get(uri string) *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.docs[uri]
}

// All returns all open documents.
func (dm *DocumentManager) All() []*Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	docs := make([]*Document, 0, len(dm.docs))
	for _, doc := range dm.docs {
		docs = append(docs, doc)
	}
	return docs
}

// parseDocument parses the document content and updates Root/Errors.
func (dm *DocumentManager) parseDocument(doc *Document) {
	root, err := haml.Parse(uriToPath(doc.URI), doc.Content)

	doc.Root = root
	doc.Errors = nil
	if err == nil {
		return
	}

	var list *haml.ErrorList
	var single *haml.Error
	switch {
	case errors.As(err, &list):
		doc.Errors = list.Errors()
	case errors.As(err, &single):
		doc.Errors = []*haml.Error{single}
	}
}

// uriToPath converts a file:// URI to a file path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok && path != "" {
		return path
	}
	return uri
}

// Position represents a position in a document (0-indexed). Character
// counts UTF-16 code units.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range represents a range in a document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// utf16Len returns the length of s in UTF-16 code units.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r == utf8.RuneError {
			n++
			continue
		}
		n += utf16.RuneLen(r)
	}
	return n
}

// lineText returns the text of the zero-based line in content.
func lineText(content string, line int) string {
	for i := 0; i < line; i++ {
		idx := strings.IndexByte(content, '\n')
		if idx < 0 {
			return ""
		}
		content = content[idx+1:]
	}
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		content = content[:idx]
	}
	return strings.TrimSuffix(content, "\r")
}

// endPosition returns the position just past the last character of content.
func endPosition(content string) Position {
	line := strings.Count(content, "\n")
	last := content[strings.LastIndexByte(content, '\n')+1:]
	return Position{Line: line, Character: utf16Len(last)}
}
