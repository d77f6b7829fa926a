package memstore

import (
	"fmt"
	"sort"
	"sync"

	"parasearch/internal/domain"
)

// ParagraphTable holds embedded paragraphs keyed by (document ID, order).
type ParagraphTable struct {
	mu         sync.RWMutex
	paragraphs map[domain.ParagraphKey]domain.Paragraph
	keys       []domain.ParagraphKey
	sorted     bool
}

func NewParagraphTable() *ParagraphTable {
	return &ParagraphTable{
		paragraphs: make(map[domain.ParagraphKey]domain.Paragraph),
		sorted:     true,
	}
}

// Put adds a paragraph. Keys are unique; a second Put with the same key fails.
func (t *ParagraphTable) Put(p domain.Paragraph) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.paragraphs[p.Key]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateKey, p.Key)
	}
	t.paragraphs[p.Key] = p
	t.keys = append(t.keys, p.Key)
	t.sorted = false
	return nil
}

func (t *ParagraphTable) Get(key domain.ParagraphKey) (domain.Paragraph, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.paragraphs[key]
	return p, ok
}

func (t *ParagraphTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.paragraphs)
}

// Scan visits paragraphs in ascending key order.
func (t *ParagraphTable) Scan(fn func(p domain.Paragraph) error) error {
	t.sortKeys()

	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, key := range t.keys {
		if err := fn(t.paragraphs[key]); err != nil {
			return err
		}
	}
	return nil
}

func (t *ParagraphTable) sortKeys() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sorted {
		return
	}
	sort.Slice(t.keys, func(i, j int) bool {
		return t.keys[i].Less(t.keys[j])
	})
	t.sorted = true
}

// DocumentTable holds document metadata keyed by document ID.
type DocumentTable struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
}

func NewDocumentTable() *DocumentTable {
	return &DocumentTable{
		docs: make(map[string]domain.Document),
	}
}

// PutDoc adds or replaces a document.
func (t *DocumentTable) PutDoc(doc domain.Document) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.docs[doc.ID] = doc
	return nil
}

func (t *DocumentTable) PutDocs(docs []domain.Document) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, doc := range docs {
		t.docs[doc.ID] = doc
	}
	return nil
}

func (t *DocumentTable) GetDoc(id string) (domain.Document, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	doc, ok := t.docs[id]
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}
	return doc, nil
}

func (t *DocumentTable) DeleteDoc(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.docs, id)
	return nil
}

// ListDocs returns all documents sorted by ID.
func (t *DocumentTable) ListDocs() ([]domain.Document, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	docs := make([]domain.Document, 0, len(t.docs))
	for _, doc := range t.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (t *DocumentTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.docs)
}
