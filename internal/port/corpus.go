package port

import "parasearch/internal/domain"

// ParagraphSource is a read-only table of embedded paragraphs.
type ParagraphSource interface {
	// Scan calls fn for every paragraph in ascending key order.
	// Iteration stops at the first error fn returns.
	Scan(fn func(p domain.Paragraph) error) error

	Len() int
}

// DocumentCatalog resolves document metadata by document ID.
type DocumentCatalog interface {
	// GetDoc returns an error wrapping domain.ErrDocumentNotFound on a miss.
	GetDoc(id string) (domain.Document, error)
}
