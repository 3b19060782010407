package app

import (
	"context"
	"errors"
	"fmt"

	"gameshot-quiz-service/internal/catalog"
	"gameshot-quiz-service/internal/domain"
)

// RoundFetcher produces the content of the next round. Remote implementations
// return *domain.FetchError for transport failures.
type RoundFetcher interface {
	FetchRound(ctx context.Context, optionCount int) (domain.RoundContent, error)
}

// LocalRounds serves rounds from an in-process selector.
type LocalRounds struct {
	selector *catalog.Selector
}

func NewLocalRounds(selector *catalog.Selector) *LocalRounds {
	return &LocalRounds{selector: selector}
}

func (l *LocalRounds) FetchRound(ctx context.Context, optionCount int) (domain.RoundContent, error) {
	if err := ctx.Err(); err != nil {
		return domain.RoundContent{}, err
	}
	return l.selector.SelectRound(optionCount)
}

// UserMessage turns a round or session failure into text suitable for players.
func UserMessage(err error) string {
	var fetchErr *domain.FetchError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fetchErr):
		switch fetchErr.Kind {
		case domain.FetchTimeout:
			return "The game server took too long to answer. Please try again."
		case domain.FetchNetwork:
			return "Could not reach the game server. Check your connection and try again."
		case domain.FetchHTTPStatus:
			return fmt.Sprintf("The game server returned an error (%d). Please try again.", fetchErr.StatusCode)
		default:
			return "Something went wrong while loading the round. Please try again."
		}
	case errors.Is(err, context.DeadlineExceeded):
		return "The game server took too long to answer. Please try again."
	case errors.Is(err, domain.ErrEmptyCatalog):
		return "No games are available for a new round right now. Please try again."
	case errors.Is(err, domain.ErrNoScreenshot):
		return "The selected game has no screenshot. Please try again."
	case errors.Is(err, domain.ErrMissingRoundData):
		return "The question has not loaded yet."
	case errors.Is(err, domain.ErrAlreadyAnswered):
		return "You already answered this question."
	case errors.Is(err, domain.ErrRoundNotAnswered):
		return "Answer the current question before moving on."
	case errors.Is(err, domain.ErrSessionComplete):
		return "This quiz is finished. Start a new one to play again."
	default:
		return "Something went wrong. Please try again."
	}
}
