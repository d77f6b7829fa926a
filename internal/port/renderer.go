package port

import (
	"io"

	"parasearch/internal/domain"
)

// Renderer presents retrieval results to a human.
type Renderer interface {
	Render(w io.Writer, query string, results []domain.RenderedResult) error
}
