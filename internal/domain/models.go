package domain

import "time"

// CatalogEntry is one selectable game. Genres are already normalized.
type CatalogEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Rating      float64  `json:"rating"`
	Genres      []string `json:"genres"`
	Screenshots []string `json:"screenshots"`
}

// RoundContent is what a single round shows: one screenshot and the shuffled options.
type RoundContent struct {
	CorrectEntryID string   `json:"correctEntryId"`
	ScreenshotRef  string   `json:"screenshotRef"`
	Options        []string `json:"options"`
	CorrectAnswer  string   `json:"correctAnswer"`
}

// HasOption reports whether name is one of the round's options.
func (r RoundContent) HasOption(name string) bool {
	for _, opt := range r.Options {
		if opt == name {
			return true
		}
	}
	return false
}

// Answer records the outcome of one round. QuestionIndex is 0-based.
type Answer struct {
	QuestionIndex  int       `json:"questionIndex"`
	SelectedOption string    `json:"selectedOption"`
	CorrectAnswer  string    `json:"correctAnswer"`
	IsCorrect      bool      `json:"isCorrect"`
	AnsweredAt     time.Time `json:"answeredAt"`
}

// Session is the persisted record of one quiz attempt.
type Session struct {
	ID              string          `json:"id"`
	StartedAt       time.Time       `json:"startedAt"`
	CurrentQuestion int             `json:"currentQuestion"` // 1-based
	Score           int             `json:"score"`
	Answers         []Answer        `json:"answers"`
	RoundData       []*RoundContent `json:"roundData"` // nil slots are padding
	IsComplete      bool            `json:"isComplete"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
}

// QuestionIndex is the 0-based index of the current round.
func (s Session) QuestionIndex() int {
	return s.CurrentQuestion - 1
}

// CurrentRound returns the content recorded for the current round, if any.
func (s Session) CurrentRound() (RoundContent, bool) {
	idx := s.QuestionIndex()
	if idx < 0 || idx >= len(s.RoundData) || s.RoundData[idx] == nil {
		return RoundContent{}, false
	}
	return *s.RoundData[idx], true
}

// CurrentAnswer returns the answer already given for the current round, if any.
// A session resumed in this state shows the answer reveal instead of prompting again.
func (s Session) CurrentAnswer() (Answer, bool) {
	idx := s.QuestionIndex()
	if idx < 0 || idx >= len(s.Answers) {
		return Answer{}, false
	}
	if s.Answers[idx].QuestionIndex != idx {
		return Answer{}, false
	}
	return s.Answers[idx], true
}

// CurrentRoundAnswered reports whether the current round already has an answer.
func (s Session) CurrentRoundAnswered() bool {
	_, ok := s.CurrentAnswer()
	return ok
}

// Clone returns a deep copy so that transitions never mutate a previous snapshot.
func (s Session) Clone() Session {
	out := s
	if s.Answers != nil {
		out.Answers = make([]Answer, len(s.Answers))
		copy(out.Answers, s.Answers)
	}
	if s.RoundData != nil {
		out.RoundData = make([]*RoundContent, len(s.RoundData))
		for i, rc := range s.RoundData {
			if rc == nil {
				continue
			}
			c := *rc
			c.Options = append([]string(nil), rc.Options...)
			out.RoundData[i] = &c
		}
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		out.CompletedAt = &t
	}
	return out
}
