package artifact

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeShortText(t *testing.T) {
	assert.Equal(t, "hello", summarize([]byte("hello"), 200))
}

func TestSummarizeTruncatesAtWordBoundary(t *testing.T) {
	text := strings.Repeat("word ", 100)
	s := summarize([]byte(text), 50)
	assert.LessOrEqual(t, len(s), 54)
	assert.True(t, strings.HasSuffix(s, "..."))
}

func TestSummarizeBinaryData(t *testing.T) {
	data := []byte{0xff, 0xfe, 0x00, 0x01, 0x80}
	s := summarize(data, 200)
	assert.Contains(t, s, "binary data")
	assert.Contains(t, s, "5 bytes")
}

func TestInMemoryStoreRoundTrip(t *testing.T) {
	s := NewInMemoryStore()
	h, err := s.Store([]byte("hello world"), "tool:search", "text/plain")
	require.NoError(t, err)
	assert.NotEmpty(t, h.ArtifactID)
	assert.Equal(t, "hello world", h.Summary)

	content, ok, err := s.Retrieve(h.ArtifactID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hello world", string(content))

	exists, err := s.Exists(h.ArtifactID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInMemoryStoreDeduplicatesByContentHash(t *testing.T) {
	s := NewInMemoryStore()
	h1, _ := s.Store([]byte("same content"), "a", "text/plain")
	h2, _ := s.Store([]byte("same content"), "b", "text/plain")
	assert.Equal(t, h1.ArtifactID, h2.ArtifactID)
}

func TestInMemoryStoreDelete(t *testing.T) {
	s := NewInMemoryStore()
	h, _ := s.Store([]byte("data"), "src", "text/plain")
	ok, err := s.Delete(h.ArtifactID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, found, _ := s.Retrieve(h.ArtifactID)
	assert.False(t, found)
}

func TestSqliteStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSqliteStore(filepath.Join(dir, "artifacts.db"))
	require.NoError(t, err)
	defer s.Close()

	h, err := s.Store([]byte("persisted content"), "tool:fetch", "text/plain")
	require.NoError(t, err)

	content, ok, err := s.Retrieve(h.ArtifactID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted content", string(content))

	handles, err := s.ListHandles("")
	require.NoError(t, err)
	assert.Len(t, handles, 1)

	ok, err = s.Delete(h.ArtifactID)
	require.NoError(t, err)
	assert.True(t, ok)
}
