package tieredmemory

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
)

// SemanticIndex layers embedding-based similarity search over the cold tier
// using chromem-go's embedded vector store, supplementing the original's
// word-overlap-only recall (spec.md is silent on semantic search; this is a
// SPEC_FULL.md domain-stack addition, not a rewrite of a named operation).
type SemanticIndex struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   Embedder
}

// NewSemanticIndex builds an in-memory chromem collection fronted by
// embedder. Vectors are supplied pre-computed (identity embedding function),
// matching the teacher's ChromemProvider pattern in pkg/vector/chromem.go.
func NewSemanticIndex(embedder Embedder) (*SemanticIndex, error) {
	db := chromem.NewDB()
	identityEmbed := func(_ context.Context, _ string) ([]float32, error) {
		return nil, fmt.Errorf("tieredmemory: embeddings are precomputed, embedding func should not be invoked")
	}
	col, err := db.GetOrCreateCollection("cold_memory", nil, identityEmbed)
	if err != nil {
		return nil, fmt.Errorf("tieredmemory: create chromem collection: %w", err)
	}
	return &SemanticIndex{db: db, collection: col, embedder: embedder}, nil
}

// Index embeds and upserts a cold-tier entry for later semantic recall.
func (s *SemanticIndex) Index(ctx context.Context, key, content string) error {
	vectors, err := s.embedder.Embed(ctx, []string{content})
	if err != nil {
		return fmt.Errorf("tieredmemory: embed entry %q: %w", key, err)
	}
	doc := chromem.Document{ID: key, Content: content, Embedding: vectors[0]}
	return s.collection.AddDocuments(ctx, []chromem.Document{doc}, 1)
}

// Search returns the topK most semantically similar cold-tier keys to
// query, each paired with its cosine similarity score.
func (s *SemanticIndex) Search(ctx context.Context, query string, topK int) ([]SemanticResult, error) {
	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("tieredmemory: embed query: %w", err)
	}
	results, err := s.collection.QueryEmbedding(ctx, vectors[0], topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("tieredmemory: semantic search: %w", err)
	}
	out := make([]SemanticResult, 0, len(results))
	for _, r := range results {
		out = append(out, SemanticResult{Key: r.ID, Content: r.Content, Score: float64(r.Similarity)})
	}
	return out, nil
}

// SemanticResult is one hit from SemanticIndex.Search.
type SemanticResult struct {
	Key     string
	Content string
	Score   float64
}
