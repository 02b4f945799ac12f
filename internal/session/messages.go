package session

import (
	"time"

	"github.com/RishabParuchuri/QuickPicks/internal/models"
)

// MessageType identifies a session message on the wire.
type MessageType string

const (
	// Client to server
	MessageTypeJoinRoom  MessageType = "join_room"
	MessageTypePlaceBet  MessageType = "place_bet"
	MessageTypeStartGame MessageType = "start_game"

	// Server to client
	MessageTypeRoomUpdate     MessageType = "room_update"
	MessageTypeNewPrompt      MessageType = "new_prompt"
	MessageTypeBettingClosed  MessageType = "betting_closed"
	MessageTypePromptResolved MessageType = "prompt_resolved"
	MessageTypeGameEnded      MessageType = "game_ended"
	MessageTypeBetConfirmed   MessageType = "bet_confirmed"
	MessageTypeError          MessageType = "error"
)

// Message is the envelope for every session message.
type Message struct {
	Type      MessageType `json:"type"`
	Data      any         `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewMessage wraps a payload in a message envelope.
func NewMessage(msgType MessageType, data any, now time.Time) Message {
	return Message{Type: msgType, Data: data, Timestamp: now}
}

// LeaderboardEntry is one row of the score ranking, sorted descending.
type LeaderboardEntry struct {
	Name       string `json:"name"`
	Score      int    `json:"score"`
	CurrentBet *int   `json:"current_bet,omitempty"`
}

// RoomSnapshot is a point-in-time copy of room state safe to marshal after
// the room lock is released.
type RoomSnapshot struct {
	ID               string                   `json:"id"`
	Name             string                   `json:"name"`
	GameName         string                   `json:"game_name"`
	HostName         string                   `json:"host_name"`
	Players          map[string]models.Player `json:"players"`
	CurrentPrompt    *models.Prompt           `json:"current_prompt,omitempty"`
	CompletedPrompts []models.Prompt          `json:"completed_prompts"`
	Status           models.GameStatus        `json:"game_status"`
	CreatedAt        time.Time                `json:"created_at"`
}

// RoomUpdateData announces a change in room membership or activity.
type RoomUpdateData struct {
	Room        RoomSnapshot       `json:"room"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Message     string             `json:"message,omitempty"`
}

// NewPromptData announces the activation of a prompt.
type NewPromptData struct {
	Prompt      models.Prompt      `json:"prompt"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// BettingClosedData announces the end of a betting window, with the suspense
// countdown until resolution.
type BettingClosedData struct {
	PromptID            string             `json:"prompt_id"`
	Prompt              models.Prompt      `json:"prompt"`
	Leaderboard         []LeaderboardEntry `json:"leaderboard"`
	ResolutionInSeconds int                `json:"resolution_in_seconds"`
}

// PromptResolvedData reveals the correct answer and the per-player point
// deltas for the resolved prompt.
type PromptResolvedData struct {
	PromptID          string             `json:"prompt_id"`
	CorrectChoiceID   int                `json:"correct_choice_id"`
	CorrectChoiceText string             `json:"correct_choice_text"`
	Results           map[string]int     `json:"results"`
	Leaderboard       []LeaderboardEntry `json:"leaderboard"`
	Prompt            models.Prompt      `json:"prompt"`
}

// GameEndedData carries the final standings.
type GameEndedData struct {
	FinalLeaderboard []LeaderboardEntry `json:"final_leaderboard"`
	TotalPrompts     int                `json:"total_prompts"`
}

// BetConfirmedData is the personal acknowledgement of an accepted bet.
type BetConfirmedData struct {
	AnswerID      int    `json:"answer_id"`
	WageredAmount int    `json:"wagered_amount"`
	Message       string `json:"message"`
}

// ErrorData is a user-visible error on the caller's own connection.
type ErrorData struct {
	Message string `json:"message"`
}
