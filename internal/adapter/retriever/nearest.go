package retriever

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"parasearch/internal/domain"
	"parasearch/internal/port"
)

// NearestRetriever ranks paragraphs by cosine distance to an embedded query
// and joins each hit with its document title.
type NearestRetriever struct {
	embedder port.Embedder
	logger   *zap.Logger
}

// NewNearestRetriever creates a retriever. A nil logger discards output.
func NewNearestRetriever(embedder port.Embedder, logger *zap.Logger) *NearestRetriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NearestRetriever{
		embedder: embedder,
		logger:   logger,
	}
}

// Retrieve returns up to n paragraphs closest to query, closest first.
// Paragraphs whose document is missing from docs are logged and skipped, so
// fewer than n results may come back. Rank is the 1-based position in the
// distance ordering and keeps its value when earlier entries are skipped.
func (r *NearestRetriever) Retrieve(
	query string,
	paragraphs port.ParagraphSource,
	docs port.DocumentCatalog,
	n int,
) ([]domain.RenderedResult, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidN, n)
	}
	if docs == nil {
		return nil, fmt.Errorf("document catalog not configured")
	}

	queryVec, err := r.EmbedQuery(query)
	if err != nil {
		return nil, err
	}

	selected, err := Nearest(queryVec, paragraphs, n)
	if err != nil {
		return nil, err
	}

	results := make([]domain.RenderedResult, 0, len(selected))
	for i, sp := range selected {
		key := sp.Paragraph.Key
		doc, err := docs.GetDoc(key.DocID)
		if errors.Is(err, domain.ErrDocumentNotFound) {
			r.logger.Warn("could not find document for paragraph",
				zap.String("doc_id", key.DocID),
				zap.Int("paragraph_order", key.Order))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up document %s: %w", key.DocID, err)
		}

		results = append(results, domain.RenderedResult{
			Rank:           i + 1,
			DocID:          key.DocID,
			ParagraphOrder: key.Order,
			Title:          doc.Title,
			Text:           sp.Paragraph.Text,
			Distance:       sp.Distance,
		})
	}

	r.logger.Debug("retrieved paragraphs",
		zap.String("query", query),
		zap.Int("requested", n),
		zap.Int("selected", len(selected)),
		zap.Int("returned", len(results)))

	return results, nil
}

// EmbedQuery encodes query as a batch of one and returns the sole vector.
func (r *NearestRetriever) EmbedQuery(query string) ([]float32, error) {
	if r.embedder == nil {
		return nil, fmt.Errorf("retrieval not available: embedder not configured")
	}

	embeddings, err := r.embedder.Embed([]string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, domain.ErrEmptyEmbedding
	}

	return embeddings[0], nil
}

// Nearest returns the n paragraphs with the smallest cosine distance to
// query, sorted by ascending distance. Equal distances are ordered by
// paragraph key. Paragraphs with a zero vector sit at MaxDistance.
func Nearest(query []float32, paragraphs port.ParagraphSource, n int) ([]domain.ScoredParagraph, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidN, n)
	}
	if paragraphs == nil || paragraphs.Len() == 0 {
		return nil, nil
	}
	if err := checkQueryVector(query); err != nil {
		return nil, fmt.Errorf("invalid query vector: %w", err)
	}

	capacity := n
	if total := paragraphs.Len(); total < capacity {
		capacity = total
	}
	h := make(worstFirst, 0, capacity+1)
	err := paragraphs.Scan(func(p domain.Paragraph) error {
		dist, err := CosineDistance(query, p.Vector)
		if err != nil && !errors.Is(err, domain.ErrZeroVector) {
			return fmt.Errorf("paragraph %s: %w", p.Key, err)
		}

		heap.Push(&h, domain.ScoredParagraph{Paragraph: p, Distance: dist})
		if h.Len() > n {
			heap.Pop(&h)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	results := []domain.ScoredParagraph(h)
	sort.Slice(results, func(i, j int) bool {
		return closer(results[i], results[j])
	})

	return results, nil
}

// closer reports whether a ranks ahead of b.
func closer(a, b domain.ScoredParagraph) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Paragraph.Key.Less(b.Paragraph.Key)
}

// worstFirst is a bounded max-heap: the root is the candidate that would be
// evicted next.
type worstFirst []domain.ScoredParagraph

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return closer(h[j], h[i]) }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *worstFirst) Push(x any) {
	*h = append(*h, x.(domain.ScoredParagraph))
}

func (h *worstFirst) Pop() any {
	old := *h
	last := old[len(old)-1]
	*h = old[:len(old)-1]
	return last
}
