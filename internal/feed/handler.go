package feed

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
)

// PlaysHandler serves recent plays over HTTP.
type PlaysHandler struct {
	history *History
}

// NewPlaysHandler creates a handler over a play history.
func NewPlaysHandler(history *History) *PlaysHandler {
	return &PlaysHandler{history: history}
}

// LastPlaysResponse is the body of GET /lastplays/{game_id}.
type LastPlaysResponse struct {
	GameID string `json:"game_id"`
	Plays  []Play `json:"plays"`
}

// HandleLastPlays handles GET /lastplays/{game_id}?n=5. Untracked games
// return an empty play list, not an error.
func (h *PlaysHandler) HandleLastPlays(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("game_id")

	n := 5
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid n parameter", http.StatusBadRequest)
			return
		}
		n = parsed
	}

	resp := LastPlaysResponse{
		GameID: gameID,
		Plays:  h.history.Last(gameID, n),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to encode last plays response")
	}
}

// RegisterRoutes registers the feed routes with an HTTP mux.
func (h *PlaysHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /lastplays/{game_id}", h.HandleLastPlays)
}
