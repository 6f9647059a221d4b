package history

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore is the single-instance fallback used when Redis is not
// reachable. Same TTL and trimming semantics as the Redis store.
type MemoryStore struct {
	cache *cache.Cache
}

var _ Store = &MemoryStore{}

func NewMemoryStore() *MemoryStore {
	// Default expiration of one hour, expired entries purged every 10 minutes.
	return &MemoryStore{cache: cache.New(SessionTTL, 10*time.Minute)}
}

// newMemoryStoreWithTTL is used by tests to exercise expiry quickly.
func newMemoryStoreWithTTL(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.New(ttl, time.Minute)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) ([]Message, error) {
	return s.load(sessionID).Messages, nil
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, userMsg, assistantMsg Message) error {
	rec := s.load(sessionID)
	rec.Messages = appendTrimmed(rec.Messages, userMsg, assistantMsg)
	s.cache.Set(sessionID, rec, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) Reset(_ context.Context, sessionID string) error {
	s.cache.Delete(sessionID)
	return nil
}

func (s *MemoryStore) BindThread(_ context.Context, sessionID, threadID string) error {
	rec := s.load(sessionID)
	rec.ThreadID = threadID
	s.cache.Set(sessionID, rec, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) ThreadID(_ context.Context, sessionID string) (string, error) {
	return s.load(sessionID).ThreadID, nil
}

func (s *MemoryStore) load(sessionID string) *record {
	if x, found := s.cache.Get(sessionID); found {
		return x.(*record)
	}
	return &record{}
}
