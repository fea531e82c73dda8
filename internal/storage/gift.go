package storage

import "sync"

// Resource is one entry of the static gift catalog.
type Resource struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// LoadResources reads the catalog. A missing or broken file yields an
// empty list; the caller decides whether that is a problem.
func LoadResources(path string) []Resource {
	var resources []Resource
	loadJSON(path, &resources)
	return resources
}

// GiftHistoryStore keeps the ordered list of gift titles already shown.
// Only the tail is consulted for rotation; old entries stay in the file.
type GiftHistoryStore struct {
	mu     sync.RWMutex
	path   string
	titles []string
}

func NewGiftHistoryStore(path string) *GiftHistoryStore {
	s := &GiftHistoryStore{path: path}
	loadJSON(path, &s.titles)
	return s
}

// Recent returns the last n shown titles, newest last.
func (s *GiftHistoryStore) Recent(n int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n > len(s.titles) {
		n = len(s.titles)
	}
	out := make([]string, n)
	copy(out, s.titles[len(s.titles)-n:])
	return out
}

// Append records a shown title and flushes the history.
func (s *GiftHistoryStore) Append(title string) error {
	s.mu.Lock()
	s.titles = append(s.titles, title)
	titles := make([]string, len(s.titles))
	copy(titles, s.titles)
	s.mu.Unlock()

	return saveJSONAtomic(s.path, titles)
}

// GiftStats are the global reaction counters. They are not scoped per user
// or per message and never decrease.
type GiftStats struct {
	Likes int `json:"likes"`
	Saved int `json:"saved"`
}

// GiftStatsStore persists the reaction counters.
type GiftStatsStore struct {
	mu    sync.Mutex
	path  string
	stats GiftStats
}

func NewGiftStatsStore(path string) *GiftStatsStore {
	s := &GiftStatsStore{path: path}
	loadJSON(path, &s.stats)
	return s
}

func (s *GiftStatsStore) AddLike() error {
	s.mu.Lock()
	s.stats.Likes++
	stats := s.stats
	s.mu.Unlock()
	return saveJSONAtomic(s.path, stats)
}

func (s *GiftStatsStore) AddSaved() error {
	s.mu.Lock()
	s.stats.Saved++
	stats := s.stats
	s.mu.Unlock()
	return saveJSONAtomic(s.path, stats)
}

func (s *GiftStatsStore) Stats() GiftStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
