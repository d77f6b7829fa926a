package usecase

import (
	"fmt"
	"io"

	"parasearch/internal/domain"
	"parasearch/internal/port"
)

// RetrieveUseCase binds a retriever to loaded corpus tables and a display
// collaborator.
type RetrieveUseCase struct {
	retriever  port.Retriever
	paragraphs port.ParagraphSource
	docs       port.DocumentCatalog
	renderer   port.Renderer
	defaultN   int
}

// NewRetrieveUseCase creates a new retrieve use case. defaultN is used when
// a caller passes n == 0.
func NewRetrieveUseCase(
	retriever port.Retriever,
	paragraphs port.ParagraphSource,
	docs port.DocumentCatalog,
	renderer port.Renderer,
	defaultN int,
) *RetrieveUseCase {
	return &RetrieveUseCase{
		retriever:  retriever,
		paragraphs: paragraphs,
		docs:       docs,
		renderer:   renderer,
		defaultN:   defaultN,
	}
}

// Retrieve returns the closest paragraphs for query.
func (u *RetrieveUseCase) Retrieve(query string, n int) ([]domain.RenderedResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	if n == 0 {
		n = u.defaultN
	}
	return u.retriever.Retrieve(query, u.paragraphs, u.docs, n)
}

// Display retrieves and renders the results to w.
func (u *RetrieveUseCase) Display(w io.Writer, query string, n int) error {
	results, err := u.Retrieve(query, n)
	if err != nil {
		return err
	}
	if u.renderer == nil {
		return fmt.Errorf("no renderer configured")
	}
	return u.renderer.Render(w, query, results)
}

// ParagraphCount reports the size of the loaded paragraph table.
func (u *RetrieveUseCase) ParagraphCount() int {
	if u.paragraphs == nil {
		return 0
	}
	return u.paragraphs.Len()
}
