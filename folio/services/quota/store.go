package quota

import (
	"context"
	"sync"
	"time"
)

// SessionRecord tracks how many questions a session asked in its current window.
type SessionRecord struct {
	SessionID      string    `json:"session_id"`
	QuestionsAsked int       `json:"questions_asked"`
	WindowStart    time.Time `json:"window_start"`
}

// QuotaStore persists session records.
//
// Implementations must be safe for concurrent use. Update is the atomic
// read-modify-write primitive the tracker builds check, consume and
// reserve on; fn runs with the record locked and whatever it leaves in rec is
// stored.
type QuotaStore interface {
	Get(ctx context.Context, sessionID string) (SessionRecord, bool, error)
	Put(ctx context.Context, rec SessionRecord) error
	Update(ctx context.Context, sessionID string, fn func(rec *SessionRecord, exists bool)) (SessionRecord, error)
	Len() int
}

var (
	_ QuotaStore = (*MemoryStore)(nil)
	_ QuotaStore = (*LRUStore)(nil)
)

// MemoryStore keeps every record for the life of the process. Nothing is
// evicted, so memory grows with the number of distinct session ids.
type MemoryStore struct {
	data map[string]SessionRecord
	mu   sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]SessionRecord)}
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (SessionRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data[sessionID]
	return rec, ok, nil
}

func (s *MemoryStore) Put(ctx context.Context, rec SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[rec.SessionID] = rec
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, sessionID string, fn func(rec *SessionRecord, exists bool)) (SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.data[sessionID]
	if !exists {
		rec = SessionRecord{SessionID: sessionID}
	}
	fn(&rec, exists)
	rec.SessionID = sessionID
	s.data[sessionID] = rec
	return rec, nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
