package tieredmemory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBackendStoreAndRecall(t *testing.T) {
	b := NewInMemoryBackend()
	require.NoError(t, b.Store("k1", "the quick brown fox", CategoryCore, "s1"))
	entries, err := b.Recall("quick fox", 5, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "k1", entries[0].Key)
}

func TestInMemoryBackendSessionFilter(t *testing.T) {
	b := NewInMemoryBackend()
	require.NoError(t, b.Store("k1", "shared secret", CategoryCore, "s1"))
	entries, _ := b.Recall("secret", 5, "s2")
	assert.Empty(t, entries)
}

func TestInMemoryBackendForget(t *testing.T) {
	b := NewInMemoryBackend()
	require.NoError(t, b.Store("k1", "content", CategoryCore, ""))
	ok, err := b.Forget("k1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = b.Forget("k1")
	assert.False(t, ok)
}

func TestTieredServiceHotTTLExpiry(t *testing.T) {
	s := NewTieredService(10*time.Millisecond, time.Hour)
	s.Store("k1", "hello world", CategoryCore, "", nil, TierHot)
	time.Sleep(20 * time.Millisecond)
	results := s.Recall("hello", 5, "", RecallOptions{})
	assert.Empty(t, results)
}

func TestTieredServiceWarmAndColdRecall(t *testing.T) {
	s := NewTieredService(time.Hour, time.Hour)
	s.Store("warm1", "deploying the service today", CategoryDaily, "", nil, TierWarm)
	s.Store("cold1", "historical record of events", CategoryCore, "", nil, TierCold)
	results := s.Recall("deploying", 5, "", RecallOptions{})
	require.Len(t, results, 1)
	assert.Equal(t, "warm1", results[0].Key)
}

func TestTieredServiceRelationIndex(t *testing.T) {
	s := NewTieredService(time.Hour, time.Hour, WithEntityExtractor(RegexEntityExtractor{}))
	s.Store("a", "def handle_request(): call other_fn()", CategoryCore, "", nil, TierCold)
	related := s.RecallByRelation("handle_request")
	require.Len(t, related, 1)
	assert.Equal(t, "a", related[0].Key)
}

func TestTieredServicePromote(t *testing.T) {
	s := NewTieredService(time.Hour, time.Hour)
	s.Store("k1", "some content", CategoryCore, "", nil, TierHot)
	ok := s.Promote("k1", TierCold)
	require.True(t, ok)
	results := s.Recall("content", 5, "", RecallOptions{Tier: TierCold})
	require.Len(t, results, 1)
}

func TestTieredServiceDecayPromotesWarmToCold(t *testing.T) {
	s := NewTieredService(time.Hour, 10*time.Millisecond)
	s.Store("w1", "aging warm entry", CategoryDaily, "", nil, TierWarm)
	time.Sleep(20 * time.Millisecond)
	evicted, promoted := s.Decay()
	assert.Equal(t, 0, evicted)
	assert.Equal(t, 1, promoted)
	results := s.Recall("aging", 5, "", RecallOptions{Tier: TierCold})
	require.Len(t, results, 1)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{}, []float32{}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1}), 1e-9)
}

func TestRegexEntityExtractor(t *testing.T) {
	entities := RegexEntityExtractor{}.Extract("def foo(): pass\nclass Bar: pass\nsee https://example.com/doc")
	assert.Contains(t, entities, "foo")
	assert.Contains(t, entities, "Bar")
	assert.Contains(t, entities, "https://example.com/doc")
}

func TestSemanticIndexRoundTrip(t *testing.T) {
	embedder := deterministicEmbedder{}
	idx, err := NewSemanticIndex(embedder)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, idx.Index(ctx, "k1", "alpha bravo"))
	require.NoError(t, idx.Index(ctx, "k2", "totally unrelated"))
	results, err := idx.Search(ctx, "alpha bravo", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "k1", results[0].Key)
}

// deterministicEmbedder maps text length to a simple 2D vector so semantic
// search has something non-trivial to discriminate on in tests, without
// pulling in a real embedding backend.
type deterministicEmbedder struct{}

func (deterministicEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if t == "alpha bravo" {
			out[i] = []float32{1, 0}
		} else {
			out[i] = []float32{0, 1}
		}
	}
	return out, nil
}

func (deterministicEmbedder) Dimension() int { return 2 }
