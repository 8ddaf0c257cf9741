package quota

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUStore bounds memory by evicting the least recently used session. An
// evicted session starts over with a full allowance.
type LRUStore struct {
	cache *lru.Cache[string, SessionRecord]
	mu    sync.Mutex
}

func NewLRUStore(size int) (*LRUStore, error) {
	cache, err := lru.New[string, SessionRecord](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru store: %w", err)
	}
	return &LRUStore{cache: cache}, nil
}

func (s *LRUStore) Get(ctx context.Context, sessionID string) (SessionRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.cache.Get(sessionID)
	return rec, ok, nil
}

func (s *LRUStore) Put(ctx context.Context, rec SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(rec.SessionID, rec)
	return nil
}

func (s *LRUStore) Update(ctx context.Context, sessionID string, fn func(rec *SessionRecord, exists bool)) (SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.cache.Get(sessionID)
	if !exists {
		rec = SessionRecord{SessionID: sessionID}
	}
	fn(&rec, exists)
	rec.SessionID = sessionID
	s.cache.Add(sessionID, rec)
	return rec, nil
}

func (s *LRUStore) Len() int {
	return s.cache.Len()
}
