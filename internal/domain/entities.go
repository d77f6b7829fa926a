package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrDuplicateKey      = errors.New("duplicate paragraph key")
	ErrZeroVector        = errors.New("zero-magnitude vector")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrInvalidVector     = errors.New("vector contains NaN or Inf")
	ErrInvalidN          = errors.New("result count must be positive")
	ErrEmptyEmbedding    = errors.New("embedder returned no vectors")
)

// ParagraphKey identifies a paragraph by its source document and its
// position within that document.
type ParagraphKey struct {
	DocID string
	Order int
}

func (k ParagraphKey) String() string {
	return fmt.Sprintf("%s#%d", k.DocID, k.Order)
}

// Less orders keys by document ID, then paragraph order.
func (k ParagraphKey) Less(other ParagraphKey) bool {
	if k.DocID != other.DocID {
		return k.DocID < other.DocID
	}
	return k.Order < other.Order
}

type Paragraph struct {
	Key    ParagraphKey
	Vector []float32
	Text   string
}

type Document struct {
	ID       string   `json:"paper_id"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors,omitempty"`
	Abstract string   `json:"abstract,omitempty"`
}

type ScoredParagraph struct {
	Paragraph Paragraph
	Distance  float64
}

// RenderedResult is what the display collaborators receive: rank, title and
// paragraph text, plus the key and distance for structured output.
type RenderedResult struct {
	Rank           int     `json:"rank"`
	DocID          string  `json:"paper_id"`
	ParagraphOrder int     `json:"paragraph_order"`
	Title          string  `json:"title"`
	Text           string  `json:"text"`
	Distance       float64 `json:"distance"`
}
