package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gameshot-quiz-service/internal/app"
	"gameshot-quiz-service/internal/domain"
	"github.com/rs/zerolog/log"
)

// maxOptions bounds the options query parameter.
const maxOptions = 10

// RoundHandler serves freshly selected round content as JSON. Remote round
// clients consume it, so unlike the websocket view it includes the correct answer.
type RoundHandler struct {
	rounds      app.RoundFetcher
	optionCount int
}

func NewRoundHandler(rounds app.RoundFetcher, optionCount int) *RoundHandler {
	return &RoundHandler{rounds: rounds, optionCount: optionCount}
}

func (h *RoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	optionCount := h.optionCount
	if raw := r.URL.Query().Get("options"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxOptions {
			http.Error(w, "options must be between 1 and 10", http.StatusBadRequest)
			return
		}
		optionCount = n
	}

	round, err := h.rounds.FetchRound(r.Context(), optionCount)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrEmptyCatalog) {
			status = http.StatusServiceUnavailable
		}
		log.Error().Err(err).Int("options", optionCount).Msg("select round")
		writeJSON(w, status, errorPayload{Message: app.UserMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, round)
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}
