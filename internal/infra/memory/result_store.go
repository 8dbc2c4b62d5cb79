package memory

import (
	"context"
	"sync"

	"iq-quiz-service/internal/domain"
)

// ResultStore is an in-memory implementation of app.ResultStore (useful for tests/demos).
// The Fail* fields inject errors to exercise storage failure paths.
type ResultStore struct {
	mu      sync.RWMutex
	records map[string]string

	FailGet    error
	FailSet    error
	FailDelete error
}

func NewResultStore() *ResultStore {
	return &ResultStore{records: make(map[string]string)}
}

func (s *ResultStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailGet != nil {
		return "", s.FailGet
	}
	value, ok := s.records[key]
	if !ok {
		return "", domain.ErrRecordNotFound
	}
	return value, nil
}

func (s *ResultStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSet != nil {
		return s.FailSet
	}
	s.records[key] = value
	return nil
}

func (s *ResultStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDelete != nil {
		return s.FailDelete
	}
	delete(s.records, key)
	return nil
}
