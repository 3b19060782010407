package http

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"gameshot-quiz-service/internal/app"
	"gameshot-quiz-service/internal/catalog"
	"gameshot-quiz-service/internal/domain"
)

func TestRoundHandler(t *testing.T) {
	cat, err := catalog.New([]domain.CatalogEntry{
		{ID: "1", Name: "Alpha", Year: 2001, Rating: 90, Genres: []string{"Platform"}, Screenshots: []string{"a.jpg"}},
		{ID: "2", Name: "Beta", Year: 2002, Rating: 90, Genres: []string{"Platform"}, Screenshots: []string{"b.jpg"}},
		{ID: "3", Name: "Gamma", Year: 2003, Rating: 90, Genres: []string{"Shooter"}, Screenshots: []string{"c.jpg"}},
		{ID: "4", Name: "Delta", Year: 2004, Rating: 90, Genres: []string{"Puzzle"}, Screenshots: []string{"d.jpg"}},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	rounds := app.NewLocalRounds(catalog.NewSelector(cat, rand.New(rand.NewSource(1)), catalog.DefaultSelectorConfig()))
	handler := NewRoundHandler(rounds, 4)

	cases := []struct {
		name    string
		method  string
		target  string
		status  int
		options int
	}{
		{name: "default options", method: http.MethodGet, target: "/api/round", status: http.StatusOK, options: 4},
		{name: "explicit options", method: http.MethodGet, target: "/api/round?options=3", status: http.StatusOK, options: 3},
		{name: "invalid options", method: http.MethodGet, target: "/api/round?options=zero", status: http.StatusBadRequest},
		{name: "too many options", method: http.MethodGet, target: "/api/round?options=50", status: http.StatusBadRequest},
		{name: "wrong method", method: http.MethodPost, target: "/api/round", status: http.StatusMethodNotAllowed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			if tc.status != http.StatusOK {
				return
			}
			var round domain.RoundContent
			if err := json.Unmarshal(rec.Body.Bytes(), &round); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(round.Options) != tc.options || !round.HasOption(round.CorrectAnswer) {
				t.Fatalf("unexpected round %+v", round)
			}
		})
	}
}

func TestRoundHandlerEmptyCatalog(t *testing.T) {
	handler := NewRoundHandler(failingRounds{err: domain.ErrEmptyCatalog}, 4)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/round", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var body errorPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Message == "" {
		t.Fatalf("expected error message, got %q (%v)", rec.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected response %d %v", rec.Code, rec.Header())
	}
}

type failingRounds struct {
	err error
}

func (f failingRounds) FetchRound(context.Context, int) (domain.RoundContent, error) {
	return domain.RoundContent{}, f.err
}

func TestLogRequestsKeepsStatus(t *testing.T) {
	handler := LogRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "teapot", http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/round", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
}
