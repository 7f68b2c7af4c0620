package tieredmemory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/yannabadie/ygn-brain/pkg/httpclient"
)

// Embedder turns text into vectors for semantic recall, mirroring the
// original's EmbeddingService abstract base.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// StubEmbedder returns zero vectors, for tests and offline use without any
// ML dependency.
type StubEmbedder struct {
	dim int
}

// NewStubEmbedder returns a stub with dim-dimensional zero vectors
// (default 384, matching all-MiniLM-L6-v2's dimension).
func NewStubEmbedder(dim int) StubEmbedder {
	if dim <= 0 {
		dim = 384
	}
	return StubEmbedder{dim: dim}
}

func (s StubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, s.dim)
	}
	return out, nil
}

func (s StubEmbedder) Dimension() int { return s.dim }

// OllamaEmbedder embeds text via Ollama's /api/embeddings endpoint, the Go
// analogue of the original's OllamaEmbeddingService.
type OllamaEmbedder struct {
	Model   string
	BaseURL string
	dim     int
	client  *httpclient.Client
}

// NewOllamaEmbedder builds an embedder pointed at an Ollama instance.
// model defaults to "nomic-embed-text" (dimension 768) when empty.
func NewOllamaEmbedder(model, baseURL string, dim int, timeout time.Duration) *OllamaEmbedder {
	if model == "" {
		model = "nomic-embed-text"
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if dim <= 0 {
		dim = 768
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &OllamaEmbedder{
		Model:   model,
		BaseURL: baseURL,
		dim:     dim,
		client: httpclient.New(
			httpclient.WithHTTPClient(&http.Client{Timeout: timeout}),
			httpclient.WithMaxRetries(2),
		),
	}
}

type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (o *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, err := o.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, nil
}

func (o *OllamaEmbedder) embedOne(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(ollamaEmbeddingRequest{Model: o.Model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("tieredmemory: marshal ollama embedding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.BaseURL+"/api/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("tieredmemory: build ollama embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tieredmemory: ollama embedding request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tieredmemory: ollama embeddings returned status %d", resp.StatusCode)
	}

	var out ollamaEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("tieredmemory: decode ollama embedding response: %w", err)
	}
	return out.Embedding, nil
}

func (o *OllamaEmbedder) Dimension() int { return o.dim }
