package port

import "parasearch/internal/domain"

// Retriever finds the paragraphs closest to a query.
type Retriever interface {
	Retrieve(query string, paragraphs ParagraphSource, docs DocumentCatalog, n int) ([]domain.RenderedResult, error)
}
