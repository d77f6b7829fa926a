package usecase

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parasearch/internal/adapter/embedding"
	"parasearch/internal/adapter/memstore"
	"parasearch/internal/adapter/render"
	"parasearch/internal/adapter/retriever"
	"parasearch/internal/domain"
)

func newUseCase(t *testing.T) *RetrieveUseCase {
	t.Helper()
	emb := embedding.NewMockEmbedder(3)

	paragraphs := memstore.NewParagraphTable()
	texts := []string{"abc", "xyz", "abd"}
	vecs, err := emb.Embed(texts)
	require.NoError(t, err)
	for i, text := range texts {
		require.NoError(t, paragraphs.Put(domain.Paragraph{
			Key:    domain.ParagraphKey{DocID: "doc1", Order: i},
			Vector: vecs[i],
			Text:   text,
		}))
	}

	docs := memstore.NewDocumentTable()
	docs.PutDoc(domain.Document{ID: "doc1", Title: "Doc1"})

	return NewRetrieveUseCase(
		retriever.NewNearestRetriever(emb, nil),
		paragraphs,
		docs,
		render.NewHTMLRenderer(),
		2,
	)
}

func TestRetrieveUseCase_DefaultN(t *testing.T) {
	uc := newUseCase(t)

	results, err := uc.Retrieve("abc", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "abc", results[0].Text)
	assert.InDelta(t, 0, results[0].Distance, 1e-9)
	assert.Equal(t, 3, uc.ParagraphCount())
}

func TestRetrieveUseCase_EmptyQuery(t *testing.T) {
	_, err := newUseCase(t).Retrieve("", 1)
	assert.Error(t, err)
}

func TestRetrieveUseCase_Display(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newUseCase(t).Display(&buf, "abc", 1))
	assert.Equal(t, "<h4>1. Doc1</h4><p>abc</p>\n", buf.String())
}
