package artifact

import (
	"sync"
	"time"
)

// InMemoryStore is a process-local Store for tests and ephemeral sessions.
type InMemoryStore struct {
	mu      sync.RWMutex
	content map[string][]byte
	handles map[string]Handle
}

// NewInMemoryStore returns an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		content: make(map[string][]byte),
		handles: make(map[string]Handle),
	}
}

func (s *InMemoryStore) Store(content []byte, source, mimeType string) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := contentHash(content)
	if h, ok := s.handles[id]; ok {
		h.Source = source
		return h, nil
	}

	h := Handle{
		ArtifactID: id,
		Summary:    summarize(content, defaultSummaryMaxLen),
		SizeBytes:  len(content),
		MimeType:   mimeType,
		CreatedAt:  time.Now(),
		Source:     source,
	}
	s.content[id] = append([]byte(nil), content...)
	s.handles[id] = h
	return h, nil
}

func (s *InMemoryStore) Retrieve(artifactID string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.content[artifactID]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), c...), true, nil
}

func (s *InMemoryStore) Exists(artifactID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.content[artifactID]
	return ok, nil
}

func (s *InMemoryStore) ListHandles(_ string) ([]Handle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Handle, 0, len(s.handles))
	for _, h := range s.handles {
		out = append(out, h)
	}
	return out, nil
}

func (s *InMemoryStore) Delete(artifactID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.content[artifactID]; !ok {
		return false, nil
	}
	delete(s.content, artifactID)
	delete(s.handles, artifactID)
	return true, nil
}

var _ Store = (*InMemoryStore)(nil)
