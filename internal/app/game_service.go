package app

import (
	"context"
	"fmt"
	"time"

	"gameshot-quiz-service/internal/catalog"
	"gameshot-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// GameConfig sets the quiz shape.
type GameConfig struct {
	MaxRounds   int
	OptionCount int
}

// GameService runs a player's quiz: it fetches round content, records it in the
// session and forwards answers and advances to the session manager.
type GameService struct {
	store  BlobStore
	rounds RoundFetcher
	cfg    GameConfig
	now    func() time.Time
	newID  func() string
}

func NewGameService(store BlobStore, rounds RoundFetcher, cfg GameConfig) *GameService {
	return NewGameServiceWithClock(store, rounds, cfg, time.Now, uuid.NewString)
}

// NewGameServiceWithClock is test-only for deterministic timestamps and ids.
func NewGameServiceWithClock(store BlobStore, rounds RoundFetcher, cfg GameConfig, now func() time.Time, newID func() string) *GameService {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	if cfg.OptionCount <= 0 {
		cfg.OptionCount = catalog.DefaultOptionCount
	}
	return &GameService{store: store, rounds: rounds, cfg: cfg, now: now, newID: newID}
}

// MaxRounds returns the configured quiz length.
func (g *GameService) MaxRounds() int {
	return g.cfg.MaxRounds
}

func (g *GameService) manager(clientID string) *SessionManager {
	return NewSessionManagerWithClock(g.store, SessionKey(clientID), g.now, g.newID)
}

// Resume returns the client's persisted session, or a fresh one when none is valid.
func (g *GameService) Resume(ctx context.Context, clientID string) domain.Session {
	m := g.manager(clientID)
	if s, ok := m.Load(ctx); ok {
		return s
	}
	return m.Create(ctx)
}

// Restart discards the client's session and starts over.
func (g *GameService) Restart(ctx context.Context, clientID string) domain.Session {
	m := g.manager(clientID)
	m.Clear(ctx)
	return m.Create(ctx)
}

// CurrentRound returns the current round's content, fetching and recording it on first use.
func (g *GameService) CurrentRound(ctx context.Context, clientID string, s domain.Session) (domain.Session, domain.RoundContent, error) {
	if s.IsComplete {
		return s, domain.RoundContent{}, domain.ErrSessionComplete
	}
	if round, ok := s.CurrentRound(); ok {
		return s, round, nil
	}

	round, err := g.rounds.FetchRound(ctx, g.cfg.OptionCount)
	if err != nil {
		return s, domain.RoundContent{}, fmt.Errorf("load question %d: %w", s.CurrentQuestion, err)
	}
	next, err := g.manager(clientID).RecordRoundContent(ctx, s, s.QuestionIndex(), round)
	if err != nil {
		return s, domain.RoundContent{}, err
	}
	return next, round, nil
}

// Answer submits the player's choice for the current round.
func (g *GameService) Answer(ctx context.Context, clientID string, s domain.Session, option string) (domain.Session, domain.Answer, error) {
	next, err := g.manager(clientID).SubmitAnswer(ctx, s, option)
	if err != nil {
		return s, domain.Answer{}, err
	}
	answer, _ := next.CurrentAnswer()
	return next, answer, nil
}

// Next advances to the following round or completes the quiz.
func (g *GameService) Next(ctx context.Context, clientID string, s domain.Session) (domain.Session, error) {
	return g.manager(clientID).Advance(ctx, s, g.cfg.MaxRounds)
}
