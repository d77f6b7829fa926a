package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// BertServiceEmbedder is a client for the HTTP front end of bert-as-service
// (bert-serving-server started with -http_port).
type BertServiceEmbedder struct {
	baseURL   string
	dimension int
	client    *http.Client
	requestID atomic.Int64
}

type bertRequest struct {
	ID          int64    `json:"id"`
	Texts       []string `json:"texts"`
	IsTokenized bool     `json:"is_tokenized"`
}

type bertResponse struct {
	ID     int64       `json:"id"`
	Result [][]float32 `json:"result"`
}

// NewBertServiceEmbedder creates a client. dimension is 768 for BERT-Base
// models and 1024 for BERT-Large.
func NewBertServiceEmbedder(baseURL string, dimension int) *BertServiceEmbedder {
	if baseURL == "" {
		baseURL = "http://localhost:8125"
	}
	if dimension <= 0 {
		dimension = 768
	}
	return &BertServiceEmbedder{
		baseURL:   baseURL,
		dimension: dimension,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (e *BertServiceEmbedder) Embed(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	id := e.requestID.Add(1)
	jsonData, err := json.Marshal(bertRequest{ID: id, Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, e.baseURL+"/encode", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := doRequest(e.client, req)
	if err != nil {
		return nil, err
	}

	var resp bertResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response (body: %s): %w", preview(body), err)
	}
	if resp.ID != id {
		return nil, fmt.Errorf("response id %d does not match request id %d", resp.ID, id)
	}
	if len(resp.Result) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Result))
	}

	return resp.Result, nil
}

func (e *BertServiceEmbedder) Dimension() int {
	return e.dimension
}

func (e *BertServiceEmbedder) ModelName() string {
	return "bert-as-service"
}
