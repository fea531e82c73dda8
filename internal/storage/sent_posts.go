package storage

import "sync"

// SentPostStore tracks article ids that were already published.
// The file format is a JSON array of strings in insertion order, so older
// deployments' sent_posts.json files load as-is. The store keeps at most
// maxSize newest ids; within that window an id is never resent.
type SentPostStore struct {
	mu      sync.RWMutex
	path    string
	maxSize int
	order   []string
	ids     map[string]struct{}
}

func NewSentPostStore(path string, maxSize int) *SentPostStore {
	s := &SentPostStore{
		path:    path,
		maxSize: maxSize,
		ids:     make(map[string]struct{}),
	}
	var saved []string
	loadJSON(path, &saved)
	for _, id := range saved {
		s.add(id)
	}
	return s
}

// IsSent reports whether the id was already published.
func (s *SentPostStore) IsSent(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// SaveSentPost records the id and flushes the store. Saving an id twice is
// a no-op; membership and cardinality stay unchanged.
func (s *SentPostStore) SaveSentPost(id string) error {
	s.mu.Lock()
	changed := s.add(id)
	order := make([]string, len(s.order))
	copy(order, s.order)
	s.mu.Unlock()

	if !changed {
		return nil
	}
	return saveJSONAtomic(s.path, order)
}

// Len returns the number of tracked ids.
func (s *SentPostStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// add inserts the id and evicts the oldest entries past maxSize.
// Caller holds the write lock.
func (s *SentPostStore) add(id string) bool {
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
	for s.maxSize > 0 && len(s.order) > s.maxSize {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.ids, oldest)
	}
	return true
}
