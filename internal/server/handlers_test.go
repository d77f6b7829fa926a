package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parasearch/config"
	"parasearch/internal/domain"
)

type stubSearcher struct {
	results []domain.RenderedResult
	err     error
	gotN    int
}

func (s *stubSearcher) Retrieve(query string, n int) ([]domain.RenderedResult, error) {
	s.gotN = n
	return s.results, s.err
}

func (s *stubSearcher) ParagraphCount() int { return 42 }

func newTestServer(searcher Searcher) http.Handler {
	return NewServer(searcher, &config.ServerConfig{Addr: ":0"}, nil).Router()
}

func TestHandleSearch(t *testing.T) {
	stub := &stubSearcher{results: []domain.RenderedResult{{Rank: 1, Title: "Doc1", Text: "A"}}}
	srv := newTestServer(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=incubation&n=3", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "incubation", resp.Query)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Doc1", resp.Results[0].Title)
	assert.Equal(t, 3, stub.gotN)
}

func TestHandleSearch_EmptyResultsIsArray(t *testing.T) {
	srv := newTestServer(&stubSearcher{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=x", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"query":"x","results":[]}`, rec.Body.String())
}

func TestHandleSearch_BadRequests(t *testing.T) {
	srv := newTestServer(&stubSearcher{})

	for _, target := range []string{
		"/api/v1/search",
		"/api/v1/search?q=x&n=0",
		"/api/v1/search?q=x&n=abc",
	} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestHandleSearch_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("invalid query vector: %w", domain.ErrZeroVector), http.StatusUnprocessableEntity},
		{errors.New("embedder down"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		newTestServer(&stubSearcher{err: tc.err}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=x", nil))
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
	}
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(&stubSearcher{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","paragraphs":42}`, rec.Body.String())
}

func TestServer_StartStop(t *testing.T) {
	srv := NewServer(&stubSearcher{}, &config.ServerConfig{Addr: "127.0.0.1:0"}, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	require.NoError(t, srv.Stop(context.Background()))
	assert.ErrorIs(t, <-errCh, http.ErrServerClosed)
}
