package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"gameshot-quiz-service/internal/app"
	"gameshot-quiz-service/internal/domain"
	"gameshot-quiz-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestWebSocketPlaysQuiz(t *testing.T) {
	server := newTestServer(t, memory.NewBlobStore(), 2)
	defer server.Close()

	conn := dial(t, server, "client-1")
	defer conn.Close()

	_, session := readNext(conn, t, "session")
	if session["currentQuestion"].(float64) != 1 || session["totalQuestions"].(float64) != 2 {
		t.Fatalf("unexpected session %+v", session)
	}
	_, round := readNext(conn, t, "round")
	if _, leaked := round["correctAnswer"]; leaked {
		t.Fatalf("round view must not reveal the answer: %+v", round)
	}
	if round["screenshot"] != "shot-1.jpg" {
		t.Fatalf("unexpected round %+v", round)
	}

	writeMessage(t, conn, "answer", map[string]any{"option": "Game 1"})
	_, result := readNext(conn, t, "answerResult")
	if result["isCorrect"] != true || result["score"].(float64) != 1 {
		t.Fatalf("unexpected answer result %+v", result)
	}

	writeMessage(t, conn, "answer", map[string]any{"option": "Game 1"})
	_, errPayload := readNext(conn, t, "error")
	if errPayload["message"] != "You already answered this question." {
		t.Fatalf("unexpected error %+v", errPayload)
	}

	writeMessage(t, conn, "next", nil)
	_, round = readNext(conn, t, "round")
	if round["question"].(float64) != 2 || round["screenshot"] != "shot-2.jpg" {
		t.Fatalf("unexpected second round %+v", round)
	}

	writeMessage(t, conn, "answer", map[string]any{"option": "Wrong"})
	_, result = readNext(conn, t, "answerResult")
	if result["isCorrect"] != false || result["correctAnswer"] != "Game 2" {
		t.Fatalf("unexpected answer result %+v", result)
	}

	writeMessage(t, conn, "next", nil)
	_, done := readNext(conn, t, "complete")
	if done["score"].(float64) != 1 || done["total"].(float64) != 2 || done["completedAt"] == nil {
		t.Fatalf("unexpected completion %+v", done)
	}
}

func TestWebSocketResumesAnsweredRound(t *testing.T) {
	server := newTestServer(t, memory.NewBlobStore(), 3)
	defer server.Close()

	conn := dial(t, server, "client-1")
	readNext(conn, t, "session")
	readNext(conn, t, "round")
	writeMessage(t, conn, "answer", map[string]any{"option": "Game 1"})
	readNext(conn, t, "answerResult")
	conn.Close()

	again := dial(t, server, "client-1")
	defer again.Close()
	_, session := readNext(again, t, "session")
	if session["currentQuestion"].(float64) != 1 || session["score"].(float64) != 1 {
		t.Fatalf("unexpected resumed session %+v", session)
	}
	_, round := readNext(again, t, "round")
	if round["screenshot"] != "shot-1.jpg" {
		t.Fatalf("expected the recorded round, got %+v", round)
	}
	_, result := readNext(again, t, "answerResult")
	if result["selectedOption"] != "Game 1" {
		t.Fatalf("expected the recorded answer, got %+v", result)
	}

	writeMessage(t, again, "restart", nil)
	_, fresh := readNext(again, t, "session")
	if fresh["score"].(float64) != 0 || fresh["sessionId"] == session["sessionId"] {
		t.Fatalf("expected a fresh session, got %+v", fresh)
	}
	readNext(again, t, "round")
}

func TestWebSocketRequiresClientID(t *testing.T) {
	server := newTestServer(t, memory.NewBlobStore(), 2)
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func newTestServer(t *testing.T, store app.BlobStore, maxRounds int) *httptest.Server {
	t.Helper()
	game := app.NewGameService(store, &sequenceRounds{}, app.GameConfig{MaxRounds: maxRounds, OptionCount: 3})
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", NewWSHandler(game).ServeWS)
	return httptest.NewServer(mux)
}

func dial(t *testing.T, server *httptest.Server, clientID string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?clientId=" + clientID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func writeMessage(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%+v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}

// sequenceRounds hands out "Game 1", "Game 2", ... in order.
type sequenceRounds struct {
	mu sync.Mutex
	n  int
}

func (s *sequenceRounds) FetchRound(_ context.Context, _ int) (domain.RoundContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	name := fmt.Sprintf("Game %d", s.n)
	return domain.RoundContent{
		CorrectEntryID: fmt.Sprint(s.n),
		ScreenshotRef:  fmt.Sprintf("shot-%d.jpg", s.n),
		Options:        []string{"Wrong", name, "Other"},
		CorrectAnswer:  name,
	}, nil
}
