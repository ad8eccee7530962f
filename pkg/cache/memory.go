package cache

import (
	"context"
	"sync"
	"time"
)

// MemorySessionStore keeps sessions in-process. Used in tests and for
// single-instance deployments without redis.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	expiry   map[string]time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*Session),
		expiry:   make(map[string]time.Time),
	}
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	if exp, ok := s.expiry[id]; ok && time.Now().After(exp) {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (s *MemorySessionStore) Set(ctx context.Context, session *Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[session.ID] = &copied
	if ttl > 0 {
		s.expiry[session.ID] = time.Now().Add(ttl)
	} else {
		delete(s.expiry, session.ID)
	}
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	delete(s.expiry, id)
	return nil
}
