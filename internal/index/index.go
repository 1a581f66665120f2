// Package index provides an in-memory document search backend built on
// Roaring bitmaps. It implements the repository the filter manager queries.
package index

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/text/language"

	"github.com/usestring/filterkit/pkg/types"
)

// postings maps a term or token to the documents containing it.
type postings map[string]*roaring.Bitmap

// Index maintains documents and lazily built per-field inverted indexes.
type Index struct {
	mu sync.RWMutex

	// ID mappings
	idToDoc map[string]uint32
	docs    []types.Document

	// Per-field postings, built on first use and dropped on every write.
	postMu sync.Mutex
	terms  map[string]postings
	tokens map[string]postings

	generation uint64
	paths      fieldPaths
	lang       language.Tag
}

// Option configures an Index.
type Option func(*Index)

// WithLanguage sets the collation language used to order string sort keys.
func WithLanguage(tag language.Tag) Option {
	return func(idx *Index) {
		idx.lang = tag
	}
}

// New creates an empty Index.
func New(opts ...Option) *Index {
	idx := &Index{
		idToDoc: make(map[string]uint32),
		docs:    make([]types.Document, 0, 1024),
		terms:   make(map[string]postings),
		tokens:  make(map[string]postings),
		lang:    language.Und,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Add indexes documents. A document whose ID is already present replaces the
// stored one in place, keeping its original position in insertion order.
func (idx *Index) Add(docs ...types.Document) error {
	normalized := make([]types.Document, 0, len(docs))
	for _, d := range docs {
		if d.ID == "" {
			return fmt.Errorf("document without id")
		}
		// gojq only accepts JSON-shaped values, so sources are round-tripped once here.
		src, err := types.ToAny(d.Source)
		if err != nil {
			return fmt.Errorf("document %s: %w", d.ID, err)
		}
		m, _ := src.(map[string]any)
		if m == nil {
			m = map[string]any{}
		}
		normalized = append(normalized, types.Document{ID: d.ID, Source: m})
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, d := range normalized {
		if docID, exists := idx.idToDoc[d.ID]; exists {
			idx.docs[docID] = d
			continue
		}
		docID := uint32(len(idx.docs))
		idx.idToDoc[d.ID] = docID
		idx.docs = append(idx.docs, d)
	}

	idx.postMu.Lock()
	idx.terms = make(map[string]postings)
	idx.tokens = make(map[string]postings)
	idx.postMu.Unlock()

	idx.generation++

	slog.Debug("indexed documents",
		slog.Int("added", len(normalized)),
		slog.Int("total", len(idx.docs)),
	)
	return nil
}

// Get returns the document with the given ID.
func (idx *Index) Get(id string) (types.Document, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	docID, ok := idx.idToDoc[id]
	if !ok {
		return types.Document{}, false
	}
	return idx.docs[docID], true
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// Generation increases on every write. Caches key on it.
func (idx *Index) Generation() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.generation
}

// allDocIDs returns a bitmap of every document. Caller holds mu.
func (idx *Index) allDocIDs() *roaring.Bitmap {
	bm := roaring.New()
	bm.AddRange(0, uint64(len(idx.docs)))
	return bm
}

// termPostings returns the term postings of field, building them on first use.
// Caller holds mu for reading.
func (idx *Index) termPostings(field string) postings {
	idx.postMu.Lock()
	defer idx.postMu.Unlock()

	if p, ok := idx.terms[field]; ok {
		return p
	}

	p := make(postings)
	for docID, d := range idx.docs {
		for _, v := range idx.paths.values(d.Source, field) {
			key, ok := termKey(v)
			if !ok {
				continue
			}
			addToBitmap(p, key, uint32(docID))
		}
	}
	idx.terms[field] = p
	return p
}

// tokenPostings returns the full-text token postings of field, building them on first use.
// Caller holds mu for reading.
func (idx *Index) tokenPostings(field string) postings {
	idx.postMu.Lock()
	defer idx.postMu.Unlock()

	if p, ok := idx.tokens[field]; ok {
		return p
	}

	p := make(postings)
	for docID, d := range idx.docs {
		for _, v := range idx.paths.values(d.Source, field) {
			s, ok := termKey(v)
			if !ok {
				continue
			}
			for _, tok := range uniqueTokens(s) {
				addToBitmap(p, tok, uint32(docID))
			}
		}
	}
	idx.tokens[field] = p
	return p
}

func addToBitmap(p postings, key string, docID uint32) {
	bm, ok := p[key]
	if !ok {
		bm = roaring.New()
		p[key] = bm
	}
	bm.Add(docID)
}
