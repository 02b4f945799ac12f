package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/RishabParuchuri/QuickPicks/internal/catalog"
	"github.com/RishabParuchuri/QuickPicks/internal/session"
)

// RoomProvider defines what the REST handlers need from the session
// orchestrator.
type RoomProvider interface {
	CreateRoom(name, gameName, hostName string) (session.RoomSnapshot, error)
	Snapshot(roomID string) (session.RoomSnapshot, []session.LeaderboardEntry, error)
	AdminStartGame(roomID string) error
}

// RoomHandler serves the session control surface: create room, fetch room
// snapshot, list available games, admin-trigger game start.
type RoomHandler struct {
	app     RoomProvider
	catalog catalog.Provider
}

// NewRoomHandler creates a new room REST handler.
func NewRoomHandler(app RoomProvider, provider catalog.Provider) *RoomHandler {
	return &RoomHandler{
		app:     app,
		catalog: provider,
	}
}

// CreateRoomRequest is the body of POST /create-game.
type CreateRoomRequest struct {
	Name     string `json:"name"`
	GameName string `json:"game_name"`
	HostName string `json:"host_name"`
}

// CreateRoomResponse is the body of a successful room creation.
type CreateRoomResponse struct {
	RoomID  string `json:"room_id"`
	Message string `json:"message"`
}

// RoomInfoResponse is the body of GET /room/{room_id}.
type RoomInfoResponse struct {
	Room        session.RoomSnapshot       `json:"room"`
	Leaderboard []session.LeaderboardEntry `json:"leaderboard"`
}

// AvailableGamesResponse is the body of GET /games.
type AvailableGamesResponse struct {
	Games []catalog.GameInfo `json:"games"`
}

// HandleCreateRoom handles POST /create-game.
func (h *RoomHandler) HandleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	snapshot, err := h.app.CreateRoom(req.Name, req.GameName, req.HostName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, CreateRoomResponse{
		RoomID:  snapshot.ID,
		Message: "Room created successfully",
	})
}

// HandleGetRoom handles GET /room/{room_id}.
func (h *RoomHandler) HandleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("room_id")

	snapshot, leaderboard, err := h.app.Snapshot(roomID)
	if err != nil {
		if errors.Is(err, session.ErrRoomNotFound) {
			http.Error(w, "Room not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to get room snapshot")
		http.Error(w, "Failed to get room", http.StatusInternalServerError)
		return
	}

	writeJSON(w, RoomInfoResponse{Room: snapshot, Leaderboard: leaderboard})
}

// HandleListGames handles GET /games.
func (h *RoomHandler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, AvailableGamesResponse{Games: h.catalog.Games()})
}

// HandleAdminStart handles POST /admin/start-demo/{room_id}, the manual game
// start trigger.
func (h *RoomHandler) HandleAdminStart(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("room_id")

	if err := h.app.AdminStartGame(roomID); err != nil {
		switch {
		case errors.Is(err, session.ErrRoomNotFound):
			http.Error(w, "Room not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	writeJSON(w, map[string]string{"message": "Demo game started", "room_id": roomID})
}

// RegisterRoutes registers the REST routes with an HTTP mux.
func (h *RoomHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /create-game", h.HandleCreateRoom)
	mux.HandleFunc("GET /games", h.HandleListGames)
	mux.HandleFunc("GET /room/{room_id}", h.HandleGetRoom)
	mux.HandleFunc("POST /admin/start-demo/{room_id}", h.HandleAdminStart)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
