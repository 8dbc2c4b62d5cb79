package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"iq-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Attempts live in a local map; their countdown is driven by the
//     connection that owns them, so they cannot move between instances.
//   - Redis only carries a liveness marker per attempt, which lets operators
//     count open attempts across instances.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(attemptID string, session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[attemptID] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(attemptID), "1", s.ttl).Err()
}

func (s *SessionStore) Get(attemptID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[attemptID]
	return session, ok
}

func (s *SessionStore) Delete(attemptID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[attemptID]; !ok {
		return
	}
	delete(s.sessions, attemptID)
	_ = s.client.Del(context.Background(), s.key(attemptID)).Err()
}

func (s *SessionStore) key(attemptID string) string {
	return "quiz:session:" + attemptID
}
