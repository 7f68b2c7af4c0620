package tieredmemory

import (
	"sync"
	"time"
)

// Tier names one of the three memory tiers.
type Tier string

const (
	TierHot  Tier = "hot"
	TierWarm Tier = "warm"
	TierCold Tier = "cold"
)

type hotEntry struct {
	key       string
	content   string
	category  Category
	sessionID string
	expiresAt time.Time
	tags      []string
}

type warmEntry struct {
	key       string
	content   string
	category  Category
	sessionID string
	timestamp time.Time
	tags      []string
}

type coldEntry struct {
	key       string
	content   string
	category  Category
	sessionID string
	timestamp time.Time
	tags      []string
	relations []string
	embedding []float32
}

// TieredService is a 3-tier memory: hot (TTL cache) -> warm (indexed) ->
// cold (persistent, with a relation graph), grounded on tiered_memory.py.
// It is not safe for concurrent use from multiple sessions by design: one
// instance is owned by a single session, matching spec §5's memory-ownership
// posture; internal fields are still mutex-protected against the
// orchestrator's own concurrent phase goroutines touching the same session.
type TieredService struct {
	mu sync.Mutex

	hot  map[string]*hotEntry
	warm map[string]*warmEntry
	cold map[string]*coldEntry

	hotTTL      time.Duration
	warmMaxAge  time.Duration
	embedder    Embedder
	extractor   EntityExtractor
	relationIdx map[string]map[string]struct{}
}

// Option configures a TieredService at construction.
type Option func(*TieredService)

// WithEmbedder stores an Embedder on the service. Store and Recall do not
// call it and cold entries are kept without an embedding; embedding-based
// search is done separately by SemanticIndex.
func WithEmbedder(e Embedder) Option {
	return func(s *TieredService) { s.embedder = e }
}

// WithEntityExtractor attaches an EntityExtractor used to populate the
// relation index when entries are stored in the cold tier.
func WithEntityExtractor(e EntityExtractor) Option {
	return func(s *TieredService) { s.extractor = e }
}

// NewTieredService builds a service with the given hot-TTL and warm-max-age,
// defaulting to 300s/3600s as in the original.
func NewTieredService(hotTTL, warmMaxAge time.Duration, opts ...Option) *TieredService {
	if hotTTL <= 0 {
		hotTTL = 300 * time.Second
	}
	if warmMaxAge <= 0 {
		warmMaxAge = 3600 * time.Second
	}
	s := &TieredService{
		hot:         make(map[string]*hotEntry),
		warm:        make(map[string]*warmEntry),
		cold:        make(map[string]*coldEntry),
		hotTTL:      hotTTL,
		warmMaxAge:  warmMaxAge,
		relationIdx: make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store persists key/content in tier (default hot), with optional tags.
// Cold-tier stores additionally run entity extraction to populate the
// relation index.
func (s *TieredService) Store(key, content string, category Category, sessionID string, tags []string, tier Tier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeLocked(key, content, category, sessionID, tags, tier)
}

func (s *TieredService) storeLocked(key, content string, category Category, sessionID string, tags []string, tier Tier) {
	now := time.Now()
	switch tier {
	case TierWarm:
		s.warm[key] = &warmEntry{key: key, content: content, category: category, sessionID: sessionID, timestamp: now, tags: tags}
	case TierCold:
		var relations []string
		if s.extractor != nil {
			relations = s.extractor.Extract(content)
		}
		s.cold[key] = &coldEntry{key: key, content: content, category: category, sessionID: sessionID, timestamp: now, tags: tags, relations: relations}
		for _, entity := range relations {
			if s.relationIdx[entity] == nil {
				s.relationIdx[entity] = make(map[string]struct{})
			}
			s.relationIdx[entity][key] = struct{}{}
		}
	default: // TierHot
		s.hot[key] = &hotEntry{key: key, content: content, category: category, sessionID: sessionID, expiresAt: now.Add(s.hotTTL), tags: tags}
	}
}

// RecallOptions narrows a Recall call to a tier and/or tag set.
type RecallOptions struct {
	Tier Tier // empty searches all tiers
	Tags []string
}

// Recall searches tiers (hot, then warm, then cold) for entries whose
// content or key overlaps query's words (3+ chars), optionally filtered by
// session and tags. Expired hot entries are evicted as a side effect.
func (s *TieredService) Recall(query string, limit int, sessionID string, opts RecallOptions) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	words := queryWords(query)
	var results []Entry

	if opts.Tier == "" || opts.Tier == TierHot {
		var expired []string
		for key, e := range s.hot {
			if !e.expiresAt.After(now) {
				expired = append(expired, key)
				continue
			}
			if matches(e.content, e.key, words, sessionID, e.sessionID, opts.Tags, e.tags) {
				results = append(results, Entry{Key: e.key, Content: e.content, Category: e.category, SessionID: e.sessionID, Timestamp: now})
			}
		}
		for _, k := range expired {
			delete(s.hot, k)
		}
	}

	if opts.Tier == "" || opts.Tier == TierWarm {
		for _, e := range s.warm {
			if matches(e.content, e.key, words, sessionID, e.sessionID, opts.Tags, e.tags) {
				results = append(results, Entry{Key: e.key, Content: e.content, Category: e.category, SessionID: e.sessionID, Timestamp: e.timestamp})
			}
		}
	}

	if opts.Tier == "" || opts.Tier == TierCold {
		for _, e := range s.cold {
			if matches(e.content, e.key, words, sessionID, e.sessionID, opts.Tags, e.tags) {
				results = append(results, Entry{Key: e.key, Content: e.content, Category: e.category, SessionID: e.sessionID, Timestamp: e.timestamp})
			}
		}
	}

	sortByTimestampDesc(results)
	return truncate(results, limit)
}

func matches(content, key string, queryWords []string, sessionFilter, entrySession string, tagFilter, entryTags []string) bool {
	if sessionFilter != "" && entrySession != sessionFilter {
		return false
	}
	if len(tagFilter) > 0 && !anyTagMatches(tagFilter, entryTags) {
		return false
	}
	if len(queryWords) == 0 {
		return true
	}
	return containsAnyWord(key+" "+content, queryWords)
}

func anyTagMatches(filter, tags []string) bool {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	for _, f := range filter {
		if _, ok := set[f]; ok {
			return true
		}
	}
	return false
}

// RecallByRelation returns cold-tier entries whose relations mention entity.
func (s *TieredService) RecallByRelation(entity string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []Entry
	for key := range s.relationIdx[entity] {
		if e, ok := s.cold[key]; ok {
			results = append(results, Entry{Key: e.key, Content: e.content, Category: e.category, SessionID: e.sessionID, Timestamp: e.timestamp})
		}
	}
	sortByTimestampDesc(results)
	return results
}

// RecallMultihop follows relation chains up to hops levels deep starting
// from query treated as a seed entity, matching the original's
// breadth-first frontier expansion.
func (s *TieredService) RecallMultihop(query string, hops int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	frontier := map[string]struct{}{query: {}}

	for i := 0; i < hops; i++ {
		next := make(map[string]struct{})
		for entity := range frontier {
			for key := range s.relationIdx[entity] {
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				if e, ok := s.cold[key]; ok {
					for _, rel := range e.relations {
						next[rel] = struct{}{}
					}
				}
			}
		}
		for entity := range frontier {
			delete(next, entity)
		}
		frontier = next
	}

	var results []Entry
	for key := range seen {
		if e, ok := s.cold[key]; ok {
			results = append(results, Entry{Key: e.key, Content: e.content, Category: e.category, SessionID: e.sessionID, Timestamp: e.timestamp})
		}
	}
	sortByTimestampDesc(results)
	return results
}

// Forget removes key from every tier. Returns true if it was found anywhere.
func (s *TieredService) Forget(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	if _, ok := s.hot[key]; ok {
		delete(s.hot, key)
		found = true
	}
	if _, ok := s.warm[key]; ok {
		delete(s.warm, key)
		found = true
	}
	if _, ok := s.cold[key]; ok {
		delete(s.cold, key)
		found = true
	}
	return found
}

// Promote moves key to targetTier, preserving its content/category/session/
// tags. Returns false if key is not present in any tier.
func (s *TieredService) Promote(key string, targetTier Tier) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, category, sessionID, tags, ok := s.findLocked(key)
	if !ok {
		return false
	}
	delete(s.hot, key)
	delete(s.warm, key)
	delete(s.cold, key)
	s.storeLocked(key, content, category, sessionID, tags, targetTier)
	return true
}

func (s *TieredService) findLocked(key string) (content string, category Category, sessionID string, tags []string, ok bool) {
	if e, found := s.hot[key]; found {
		return e.content, e.category, e.sessionID, e.tags, true
	}
	if e, found := s.warm[key]; found {
		return e.content, e.category, e.sessionID, e.tags, true
	}
	if e, found := s.cold[key]; found {
		return e.content, e.category, e.sessionID, e.tags, true
	}
	return "", "", "", nil, false
}

// Decay evicts expired hot entries and promotes warm entries older than
// warmMaxAge to cold. Returns (evictedHot, promotedToCold). Cold entries
// never revive to warm during decay (spec's Open Question (c): decay is
// one-directional).
func (s *TieredService) Decay() (evictedHot, promotedToCold int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var expiredHot []string
	for k, e := range s.hot {
		if !e.expiresAt.After(now) {
			expiredHot = append(expiredHot, k)
		}
	}
	for _, k := range expiredHot {
		delete(s.hot, k)
	}

	var agedWarm []string
	for k, e := range s.warm {
		if now.Sub(e.timestamp) >= s.warmMaxAge {
			agedWarm = append(agedWarm, k)
		}
	}
	for _, k := range agedWarm {
		e := s.warm[k]
		delete(s.warm, k)
		s.cold[k] = &coldEntry{key: e.key, content: e.content, category: e.category, sessionID: e.sessionID, timestamp: e.timestamp, tags: e.tags}
	}

	return len(expiredHot), len(agedWarm)
}

var _ Service = (*serviceAdapter)(nil)

// serviceAdapter lets TieredService satisfy the simpler Service interface
// for callers that only need store/recall/forget without tier control.
type serviceAdapter struct{ t *TieredService }

// AsService adapts t to the flat Service interface, always storing/
// recalling against the hot tier across all tiers for recall.
func AsService(t *TieredService) Service { return serviceAdapter{t} }

func (a serviceAdapter) Store(key, content string, category Category, sessionID string) error {
	a.t.Store(key, content, category, sessionID, nil, TierHot)
	return nil
}

func (a serviceAdapter) Recall(query string, limit int, sessionID string) ([]Entry, error) {
	return a.t.Recall(query, limit, sessionID, RecallOptions{}), nil
}

func (a serviceAdapter) Forget(key string) (bool, error) {
	return a.t.Forget(key), nil
}
