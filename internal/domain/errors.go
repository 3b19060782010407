package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCatalog is returned when no entry satisfies even the most relaxed selection tier.
	ErrEmptyCatalog = errors.New("no catalog entries available for selection")
	// ErrNoScreenshot indicates a selected entry has no screenshots; the catalog is corrupt.
	ErrNoScreenshot = errors.New("selected catalog entry has no screenshots")
	// ErrDuplicateEntry indicates two catalog entries share a name (or an id).
	ErrDuplicateEntry = errors.New("duplicate catalog entry")
	// ErrMissingRoundData is returned when an answer is submitted before the round content was recorded.
	ErrMissingRoundData = errors.New("round content not recorded for current question")
	// ErrAlreadyAnswered is returned when the current round already has an answer.
	ErrAlreadyAnswered = errors.New("current question already answered")
	// ErrRoundNotAnswered is returned when advancing past a round that has no answer.
	ErrRoundNotAnswered = errors.New("current question not answered yet")
	// ErrSessionComplete is returned when answering on a finished session.
	ErrSessionComplete = errors.New("quiz session already complete")
	// ErrInvalidRoundIndex indicates a negative round index.
	ErrInvalidRoundIndex = errors.New("invalid round index")
)

// FetchErrorKind classifies round-fetch failures.
type FetchErrorKind string

const (
	FetchTimeout    FetchErrorKind = "timeout"
	FetchNetwork    FetchErrorKind = "network"
	FetchHTTPStatus FetchErrorKind = "http-status"
	FetchUnknown    FetchErrorKind = "unknown"
)

// FetchError is returned by round fetchers that talk to a remote source.
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int // set for FetchHTTPStatus
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchHTTPStatus {
		return fmt.Sprintf("fetch round: %s %d: %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch round: %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
