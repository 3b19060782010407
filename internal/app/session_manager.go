package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gameshot-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultMaxRounds is the quiz length used when none is configured.
const DefaultMaxRounds = 10

// BlobStore abstracts where session snapshots live (in-memory, Redis, SQLite).
// Get reports false when the key is absent.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
	Clear(ctx context.Context, key string) error
}

// SessionKey is the well-known store key for one client's session.
func SessionKey(clientID string) string {
	return "quiz:session:" + clientID
}

// SessionManager moves one client's session through its rounds. Every transition
// returns a new snapshot and persists it whole; store failures never fail a transition.
type SessionManager struct {
	store BlobStore
	key   string
	now   func() time.Time
	newID func() string
}

func NewSessionManager(store BlobStore, key string) *SessionManager {
	return NewSessionManagerWithClock(store, key, time.Now, uuid.NewString)
}

// NewSessionManagerWithClock allows deterministic timestamps and ids in tests.
func NewSessionManagerWithClock(store BlobStore, key string, now func() time.Time, newID func() string) *SessionManager {
	return &SessionManager{store: store, key: key, now: now, newID: newID}
}

// Create starts a fresh session, replacing whatever was persisted.
func (m *SessionManager) Create(ctx context.Context) domain.Session {
	s := domain.Session{
		ID:              m.newID(),
		StartedAt:       m.now().UTC(),
		CurrentQuestion: 1,
		Answers:         []domain.Answer{},
		RoundData:       []*domain.RoundContent{},
	}
	m.persist(ctx, s)
	return s
}

// Load returns the persisted session if it exists, decodes and passes integrity checks.
func (m *SessionManager) Load(ctx context.Context) (domain.Session, bool) {
	data, ok, err := m.store.Get(ctx, m.key)
	if err != nil {
		log.Warn().Err(err).Str("key", m.key).Msg("session read failed, treating as absent")
		return domain.Session{}, false
	}
	if !ok {
		return domain.Session{}, false
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		log.Warn().Err(err).Str("key", m.key).Msg("discarding malformed session")
		return domain.Session{}, false
	}
	if err := checkIntegrity(s, m.now()); err != nil {
		log.Info().Err(err).Str("key", m.key).Str("session", s.ID).Msg("discarding inconsistent session")
		return domain.Session{}, false
	}
	return s, true
}

// Clear drops the persisted session.
func (m *SessionManager) Clear(ctx context.Context) {
	if err := m.store.Clear(ctx, m.key); err != nil {
		log.Warn().Err(err).Str("key", m.key).Msg("session clear failed")
	}
}

// RecordRoundContent stores content for roundIndex (0-based), padding any gap.
// Recording the same content twice yields the same session.
func (m *SessionManager) RecordRoundContent(ctx context.Context, s domain.Session, roundIndex int, content domain.RoundContent) (domain.Session, error) {
	if roundIndex < 0 {
		return s, fmt.Errorf("%w: %d", domain.ErrInvalidRoundIndex, roundIndex)
	}

	next := s.Clone()
	for len(next.RoundData) <= roundIndex {
		next.RoundData = append(next.RoundData, nil)
	}
	c := content
	c.Options = append([]string(nil), content.Options...)
	next.RoundData[roundIndex] = &c

	m.persist(ctx, next)
	return next, nil
}

// SubmitAnswer scores selectedOption against the current round.
func (m *SessionManager) SubmitAnswer(ctx context.Context, s domain.Session, selectedOption string) (domain.Session, error) {
	if s.IsComplete {
		return s, domain.ErrSessionComplete
	}
	idx := s.QuestionIndex()
	round, ok := s.CurrentRound()
	if !ok {
		return s, fmt.Errorf("%w: question %d", domain.ErrMissingRoundData, s.CurrentQuestion)
	}
	switch {
	case len(s.Answers) > idx:
		return s, domain.ErrAlreadyAnswered
	case len(s.Answers) < idx:
		return s, fmt.Errorf("%w: question %d", domain.ErrRoundNotAnswered, len(s.Answers)+1)
	}

	next := s.Clone()
	answer := domain.Answer{
		QuestionIndex:  idx,
		SelectedOption: selectedOption,
		CorrectAnswer:  round.CorrectAnswer,
		IsCorrect:      selectedOption == round.CorrectAnswer,
		AnsweredAt:     m.now().UTC(),
	}
	next.Answers = append(next.Answers, answer)
	if answer.IsCorrect {
		next.Score++
	}

	m.persist(ctx, next)
	return next, nil
}

// Advance moves to the next round, completing the session after maxRounds.
// Advancing a complete session returns it unchanged.
func (m *SessionManager) Advance(ctx context.Context, s domain.Session, maxRounds int) (domain.Session, error) {
	if s.IsComplete {
		return s, nil
	}
	if !s.CurrentRoundAnswered() {
		return s, fmt.Errorf("%w: question %d", domain.ErrRoundNotAnswered, s.CurrentQuestion)
	}
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	next := s.Clone()
	next.CurrentQuestion++
	if next.CurrentQuestion > maxRounds {
		done := m.now().UTC()
		next.IsComplete = true
		next.CompletedAt = &done
	}

	m.persist(ctx, next)
	return next, nil
}

// ValidateIntegrity reports whether s is structurally consistent.
func (m *SessionManager) ValidateIntegrity(s domain.Session) bool {
	return checkIntegrity(s, m.now()) == nil
}

func (m *SessionManager) persist(ctx context.Context, s domain.Session) {
	data, err := json.Marshal(s)
	if err != nil {
		log.Error().Err(err).Str("session", s.ID).Msg("encode session")
		return
	}
	if err := m.store.Set(ctx, m.key, data); err != nil {
		log.Warn().Err(err).Str("key", m.key).Str("session", s.ID).Msg("session write failed")
	}
}

var errIntegrity = errors.New("session integrity")

// checkIntegrity ties the answer log to the round cursor. A session may sit between
// submit and advance, so len(answers) is currentQuestion-1 or currentQuestion while
// active and exactly currentQuestion-1 once complete.
func checkIntegrity(s domain.Session, now time.Time) error {
	if s.ID == "" || s.StartedAt.IsZero() {
		return fmt.Errorf("%w: missing id or start time", errIntegrity)
	}
	if s.CurrentQuestion < 1 {
		return fmt.Errorf("%w: current question %d", errIntegrity, s.CurrentQuestion)
	}

	correct := 0
	for i, a := range s.Answers {
		if a.QuestionIndex != i {
			return fmt.Errorf("%w: answer %d has question index %d", errIntegrity, i, a.QuestionIndex)
		}
		if a.IsCorrect != (a.SelectedOption == a.CorrectAnswer) {
			return fmt.Errorf("%w: answer %d correctness mismatch", errIntegrity, i)
		}
		if a.IsCorrect {
			correct++
		}
	}
	if s.Score != correct {
		return fmt.Errorf("%w: score %d but %d correct answers", errIntegrity, s.Score, correct)
	}

	n := len(s.Answers)
	if s.IsComplete {
		if s.CurrentQuestion != n+1 {
			return fmt.Errorf("%w: complete at question %d with %d answers", errIntegrity, s.CurrentQuestion, n)
		}
		if s.CompletedAt == nil {
			return fmt.Errorf("%w: complete without completion time", errIntegrity)
		}
	} else {
		if n != s.CurrentQuestion-1 && n != s.CurrentQuestion {
			return fmt.Errorf("%w: question %d with %d answers", errIntegrity, s.CurrentQuestion, n)
		}
		if s.CompletedAt != nil {
			return fmt.Errorf("%w: completion time on active session", errIntegrity)
		}
	}

	if s.StartedAt.After(now) {
		return fmt.Errorf("%w: started in the future", errIntegrity)
	}
	for i, a := range s.Answers {
		if a.AnsweredAt.Before(s.StartedAt) || a.AnsweredAt.After(now) {
			return fmt.Errorf("%w: answer %d timestamp out of range", errIntegrity, i)
		}
	}
	if s.CompletedAt != nil && (s.CompletedAt.Before(s.StartedAt) || s.CompletedAt.After(now)) {
		return fmt.Errorf("%w: completion timestamp out of range", errIntegrity)
	}
	return nil
}
