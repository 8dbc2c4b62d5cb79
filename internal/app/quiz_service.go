package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"iq-quiz-service/internal/domain"
)

// SessionRepository abstracts how in-progress attempts are held (in-memory, Redis, etc).
// Attempts are keyed by attempt id so two views of one client never share state.
type SessionRepository interface {
	Put(attemptID string, session *Session)
	Get(attemptID string) (*Session, bool)
	Delete(attemptID string)
}

// ResultStore is the key-value port result records are handed off through.
// Get returns domain.ErrRecordNotFound when nothing is stored under key.
type ResultStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// QuizService contains the quiz run use cases.
type QuizService struct {
	sessions  SessionRepository
	results   ResultStore
	questions []domain.Question
	duration  time.Duration
	now       func() time.Time
}

func NewQuizService(sessions SessionRepository, results ResultStore, duration time.Duration) *QuizService {
	return NewQuizServiceWithClock(sessions, results, duration, time.Now)
}

// NewQuizServiceWithClock allows deterministic timestamps in tests.
func NewQuizServiceWithClock(sessions SessionRepository, results ResultStore, duration time.Duration, now func() time.Time) *QuizService {
	return &QuizService{
		sessions:  sessions,
		results:   results,
		questions: domain.Questions(),
		duration:  duration,
		now:       now,
	}
}

// Duration is the configured countdown length.
func (s *QuizService) Duration() time.Duration {
	if s.duration <= 0 {
		return DefaultDuration
	}
	return s.duration
}

// TotalQuestions is the size of the question battery.
func (s *QuizService) TotalQuestions() int {
	return len(s.questions)
}

// Begin opens a fresh attempt for the client in the instructions state and
// returns its id.
func (s *QuizService) Begin(clientID string) (string, Snapshot) {
	attemptID := uuid.NewString()
	session := NewSession(attemptID, clientID, s.questions, s.duration)
	s.sessions.Put(attemptID, session)
	return attemptID, session.Snapshot()
}

// Start moves the attempt from instructions into the countdown.
func (s *QuizService) Start(_ context.Context, attemptID string) (Snapshot, error) {
	session, ok := s.sessions.Get(attemptID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	if err := session.Start(s.now()); err != nil {
		return session.Snapshot(), err
	}
	return session.Snapshot(), nil
}

// Select records the pending option for the current question.
func (s *QuizService) Select(_ context.Context, attemptID string, option int) (Snapshot, error) {
	session, ok := s.sessions.Get(attemptID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	if err := session.Select(option); err != nil {
		return session.Snapshot(), err
	}
	return session.Snapshot(), nil
}

// Next confirms the pending answer. A non-nil Outcome means the attempt
// finalized and its record has been handed to the result store.
func (s *QuizService) Next(ctx context.Context, attemptID string) (Snapshot, *Outcome, error) {
	session, ok := s.sessions.Get(attemptID)
	if !ok {
		return Snapshot{}, nil, domain.ErrSessionNotFound
	}
	outcome, err := session.Next(s.now())
	if err != nil {
		return session.Snapshot(), nil, err
	}
	if outcome != nil {
		s.finalize(ctx, session, outcome)
	}
	return session.Snapshot(), outcome, nil
}

// Tick advances the countdown by one second.
func (s *QuizService) Tick(ctx context.Context, attemptID string) (Snapshot, *Outcome, error) {
	session, ok := s.sessions.Get(attemptID)
	if !ok {
		return Snapshot{}, nil, domain.ErrSessionNotFound
	}
	outcome, err := session.Tick(s.now())
	if err != nil {
		return session.Snapshot(), nil, err
	}
	if outcome != nil {
		s.finalize(ctx, session, outcome)
	}
	return session.Snapshot(), outcome, nil
}

// Snapshot returns the attempt as it stands.
func (s *QuizService) Snapshot(attemptID string) (Snapshot, error) {
	session, ok := s.sessions.Get(attemptID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// Abandon drops an unfinished attempt; nothing is persisted.
func (s *QuizService) Abandon(attemptID string) {
	s.sessions.Delete(attemptID)
}

// finalize writes the record, replacing any earlier one. A failed write is
// logged and the client still proceeds to the result view.
func (s *QuizService) finalize(ctx context.Context, session *Session, outcome *Outcome) {
	defer s.sessions.Delete(session.ID())

	clientID := session.ClientID()
	raw, err := EncodeRecord(outcome.Record)
	if err != nil {
		log.Printf("save result for client %s: %v", clientID, err)
		return
	}
	if err := s.results.Set(ctx, ResultKey(clientID), raw); err != nil {
		log.Printf("save result for client %s: %v", clientID, err)
		return
	}
	log.Printf("result saved for client %s: %d/%d in %ds", clientID, outcome.Record.Score, outcome.Record.TotalQuestions, outcome.Record.TimeUsed)
}
