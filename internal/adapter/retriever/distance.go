package retriever

import (
	"fmt"
	"math"

	"parasearch/internal/domain"
)

// MaxDistance is the largest possible cosine distance (opposite directions).
// Paragraphs whose vector has zero magnitude are placed at this distance.
const MaxDistance = 2.0

// CosineDistance returns 1 - (a·b)/(‖a‖‖b‖).
// If either vector has zero magnitude it returns MaxDistance together with
// domain.ErrZeroVector so the caller can decide how to treat it.
func CosineDistance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, len(a), len(b))
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if !isFinite(dotProduct) || !isFinite(normA) || !isFinite(normB) {
		return 0, domain.ErrInvalidVector
	}
	if normA == 0 || normB == 0 {
		return MaxDistance, domain.ErrZeroVector
	}

	similarity := dotProduct / math.Sqrt(normA*normB)
	// Rounding can push the ratio a hair outside [-1, 1].
	if similarity > 1 {
		similarity = 1
	} else if similarity < -1 {
		similarity = -1
	}

	return 1 - similarity, nil
}

// checkQueryVector rejects query vectors for which no distance is defined.
func checkQueryVector(v []float32) error {
	if len(v) == 0 {
		return fmt.Errorf("%w: empty query vector", domain.ErrDimensionMismatch)
	}
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if !isFinite(norm) {
		return domain.ErrInvalidVector
	}
	if norm == 0 {
		return domain.ErrZeroVector
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
