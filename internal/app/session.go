package app

import (
	"fmt"
	"sync"
	"time"

	"iq-quiz-service/internal/domain"
)

// SessionState is a step of the attempt lifecycle.
type SessionState string

const (
	StateInstructions SessionState = "instructions"
	StateRunning      SessionState = "running"
	StateFinished     SessionState = "finished"
)

const (
	// EntryPath is the quiz view clients navigate back to for a new attempt.
	EntryPath = "/"
	// ResultPath is the result view a finished attempt navigates to.
	ResultPath = "/result"

	// DefaultDuration is the countdown length of an attempt.
	DefaultDuration = 10 * time.Minute

	// fallbackElapsedSeconds is reported when an attempt finalizes without a
	// recorded start; no regular path reaches it.
	fallbackElapsedSeconds = 300
)

// Outcome is emitted exactly once, when an attempt finalizes.
type Outcome struct {
	Record   domain.ResultRecord `json:"-"`
	Navigate string              `json:"navigate"`
}

// Snapshot is a read-only view of an attempt for the presentation layer.
type Snapshot struct {
	State      SessionState     `json:"state"`
	Index      int              `json:"index"`
	Total      int              `json:"total"`
	Question   *domain.Question `json:"question,omitempty"`
	Selected   *int             `json:"selected"`
	CanConfirm bool             `json:"canConfirm"`
	Remaining  int              `json:"remaining"`
	Clock      string           `json:"clock"`
}

// Session is one attempt through the question battery. Every transition
// receives the current time from the caller; the session never reads a clock.
type Session struct {
	id        string
	clientID  string
	questions []domain.Question
	duration  time.Duration

	mu        sync.Mutex
	state     SessionState
	current   int
	pending   int
	answers   []int
	remaining int
	startedAt time.Time
}

// NewSession creates an attempt in the instructions state. Results of the
// attempt are stored for clientID.
func NewSession(id, clientID string, questions []domain.Question, duration time.Duration) *Session {
	if duration <= 0 {
		duration = DefaultDuration
	}
	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = domain.Unanswered
	}
	return &Session{
		id:        id,
		clientID:  clientID,
		questions: questions,
		duration:  duration,
		state:     StateInstructions,
		pending:   domain.Unanswered,
		answers:   answers,
		remaining: durationSeconds(duration),
	}
}

// ID returns the attempt id.
func (s *Session) ID() string {
	return s.id
}

// ClientID returns the client the attempt belongs to.
func (s *Session) ClientID() string {
	return s.clientID
}

// Start records the start time, resets the countdown and begins the attempt.
func (s *Session) Start(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInstructions {
		return fmt.Errorf("start from %s: %w", s.state, domain.ErrInvalidTransition)
	}
	s.startedAt = now
	s.remaining = durationSeconds(s.duration)
	s.state = StateRunning
	return nil
}

// Select sets the pending option for the current question, replacing any
// earlier unconfirmed choice.
func (s *Session) Select(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return fmt.Errorf("select in %s: %w", s.state, domain.ErrInvalidTransition)
	}
	if option < 0 || option >= domain.OptionsPerQuestion {
		return domain.ErrOptionOutOfRange
	}
	s.pending = option
	return nil
}

// CanConfirm reports whether Next would commit an answer.
func (s *Session) CanConfirm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canConfirmLocked()
}

func (s *Session) canConfirmLocked() bool {
	return s.state == StateRunning && s.pending != domain.Unanswered
}

// Next commits the pending answer and advances, finalizing after the last
// question. Without a pending answer it does nothing.
func (s *Session) Next(now time.Time) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return nil, fmt.Errorf("next in %s: %w", s.state, domain.ErrInvalidTransition)
	}
	if !s.canConfirmLocked() {
		return nil, nil
	}
	s.answers[s.current] = s.pending
	s.pending = domain.Unanswered
	if s.current < len(s.questions)-1 {
		s.current++
		return nil, nil
	}
	return s.finalizeLocked(now), nil
}

// Tick consumes one second of the countdown. When the countdown reaches
// zero the attempt finalizes with whatever has been captured.
func (s *Session) Tick(now time.Time) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return nil, fmt.Errorf("tick in %s: %w", s.state, domain.ErrInvalidTransition)
	}
	if s.remaining <= 1 {
		s.remaining = 0
		return s.finalizeLocked(now), nil
	}
	s.remaining--
	return nil, nil
}

func (s *Session) finalizeLocked(now time.Time) *Outcome {
	final := make([]int, len(s.answers))
	copy(final, s.answers)
	if s.pending != domain.Unanswered && s.current < len(final) {
		final[s.current] = s.pending
	}

	elapsed := fallbackElapsedSeconds
	if !s.startedAt.IsZero() {
		elapsed = int(now.Sub(s.startedAt) / time.Second)
		if elapsed < 0 {
			elapsed = 0
		}
	}

	s.state = StateFinished
	return &Outcome{
		Record: domain.ResultRecord{
			Score:          Score(s.questions, final),
			TotalQuestions: len(s.questions),
			TimeUsed:       elapsed,
			Timestamp:      now.UTC().Truncate(time.Millisecond),
		},
		Navigate: ResultPath,
	}
}

// Snapshot returns the current view of the attempt.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		State:      s.state,
		Index:      s.current,
		Total:      len(s.questions),
		CanConfirm: s.canConfirmLocked(),
		Remaining:  s.remaining,
		Clock:      FormatClock(s.remaining),
	}
	if s.state == StateRunning && s.current < len(s.questions) {
		q := s.questions[s.current]
		snap.Question = &q
	}
	if s.pending != domain.Unanswered {
		selected := s.pending
		snap.Selected = &selected
	}
	return snap
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func durationSeconds(d time.Duration) int {
	return int(d / time.Second)
}
