package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"gameshot-quiz-service/internal/app"
	"gameshot-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type WSHandler struct {
	game     *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(game *app.GameService) *WSHandler {
	return &WSHandler{
		game: game,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Option string `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type sessionView struct {
	SessionID       string     `json:"sessionId"`
	CurrentQuestion int        `json:"currentQuestion"`
	TotalQuestions  int        `json:"totalQuestions"`
	Score           int        `json:"score"`
	IsComplete      bool       `json:"isComplete"`
	StartedAt       time.Time  `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// roundView never carries the correct answer; the client learns it from answerResult.
type roundView struct {
	Question   int      `json:"question"`
	Total      int      `json:"total"`
	Screenshot string   `json:"screenshot"`
	Options    []string `json:"options"`
}

type answerResult struct {
	Question       int    `json:"question"`
	SelectedOption string `json:"selectedOption"`
	CorrectAnswer  string `json:"correctAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
	Score          int    `json:"score"`
}

type completePayload struct {
	Score       int        `json:"score"`
	Total       int        `json:"total"`
	CompletedAt *time.Time `json:"completedAt"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// playSession is one connection's view of the client's quiz. Only the read loop touches it.
type playSession struct {
	h        *WSHandler
	ctx      context.Context
	clientID string
	session  domain.Session
	send     chan<- outboundMessage[any]
}

// ServeWS upgrades HTTP requests to websockets and plays the client's quiz over them.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		http.Error(w, "missing clientId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		broken := false
		for msg := range send {
			if broken {
				continue // drain so the read loop never blocks on a dead connection
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Str("client", clientID).Msg("ws write error")
				broken = true
			}
		}
	}()

	play := &playSession{h: h, ctx: r.Context(), clientID: clientID, send: send}
	play.session = h.game.Resume(play.ctx, clientID)
	play.pushState()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "resume":
			play.session = h.game.Resume(play.ctx, clientID)
			play.pushState()
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Option == "" {
				play.push("error", errorPayload{Message: "invalid answer payload"})
				continue
			}
			play.answer(payload.Option)
		case "next":
			play.next()
		case "restart":
			play.session = h.game.Restart(play.ctx, clientID)
			play.pushState()
		default:
			play.push("error", errorPayload{Message: "unsupported message type"})
		}
	}

	close(send)
	<-writerDone
}

func (p *playSession) push(typ string, payload any) {
	p.send <- outboundMessage[any]{Type: typ, Payload: payload}
}

func (p *playSession) fail(err error) {
	log.Warn().Err(err).Str("client", p.clientID).Str("session", p.session.ID).Msg("quiz action failed")
	p.push("error", errorPayload{Message: app.UserMessage(err)})
}

// pushState sends the session followed by whatever the player should see next:
// the final score, the current round, and the reveal when that round is already answered.
func (p *playSession) pushState() {
	p.push("session", p.view())
	if p.session.IsComplete {
		p.pushComplete()
		return
	}
	if !p.pushRound() {
		return
	}
	if answer, ok := p.session.CurrentAnswer(); ok {
		p.pushAnswer(answer)
	}
}

func (p *playSession) pushRound() bool {
	next, round, err := p.h.game.CurrentRound(p.ctx, p.clientID, p.session)
	p.session = next
	if err != nil {
		p.fail(err)
		return false
	}
	p.push("round", roundView{
		Question:   p.session.CurrentQuestion,
		Total:      p.h.game.MaxRounds(),
		Screenshot: round.ScreenshotRef,
		Options:    round.Options,
	})
	return true
}

func (p *playSession) pushAnswer(a domain.Answer) {
	p.push("answerResult", answerResult{
		Question:       a.QuestionIndex + 1,
		SelectedOption: a.SelectedOption,
		CorrectAnswer:  a.CorrectAnswer,
		IsCorrect:      a.IsCorrect,
		Score:          p.session.Score,
	})
}

func (p *playSession) pushComplete() {
	p.push("complete", completePayload{
		Score:       p.session.Score,
		Total:       p.h.game.MaxRounds(),
		CompletedAt: p.session.CompletedAt,
	})
}

func (p *playSession) answer(option string) {
	next, answer, err := p.h.game.Answer(p.ctx, p.clientID, p.session, option)
	if err != nil {
		p.fail(err)
		return
	}
	p.session = next
	p.pushAnswer(answer)
}

func (p *playSession) next() {
	next, err := p.h.game.Next(p.ctx, p.clientID, p.session)
	if err != nil {
		p.fail(err)
		return
	}
	p.session = next
	if p.session.IsComplete {
		p.pushComplete()
		return
	}
	p.pushRound()
}

func (p *playSession) view() sessionView {
	return sessionView{
		SessionID:       p.session.ID,
		CurrentQuestion: p.session.CurrentQuestion,
		TotalQuestions:  p.h.game.MaxRounds(),
		Score:           p.session.Score,
		IsComplete:      p.session.IsComplete,
		StartedAt:       p.session.StartedAt,
		CompletedAt:     p.session.CompletedAt,
	}
}
