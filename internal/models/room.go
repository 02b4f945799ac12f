package models

import (
	"time"
)

// GameStatus defines the lifecycle status of a room's game.
type GameStatus string

const (
	GameStatusWaiting    GameStatus = "waiting"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusCompleted  GameStatus = "completed"
)

// StartingScore is the fixed stake every player begins with.
const StartingScore = 200

// Player represents one non-host participant in a room. The name doubles as
// the connection identity; there is no separate numeric ID.
type Player struct {
	Name          string    `json:"name"`
	Score         int       `json:"score"`
	CurrentBet    *int      `json:"current_bet,omitempty"`
	WageredAmount int       `json:"wagered_amount"`
	JoinedAt      time.Time `json:"joined_at"`
}

// NewPlayer creates a player at the starting stake.
func NewPlayer(name string, now time.Time) *Player {
	return &Player{
		Name:     name,
		Score:    StartingScore,
		JoinedAt: now,
	}
}

// Room represents one hosted betting session tied to a live game.
// The host is identified by name only and is never stored in Players.
type Room struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	GameName         string             `json:"game_name"`
	HostName         string             `json:"host_name"`
	Players          map[string]*Player `json:"players"`
	CurrentPrompt    *Prompt            `json:"current_prompt,omitempty"`
	CompletedPrompts []Prompt           `json:"completed_prompts"`
	Status           GameStatus         `json:"game_status"`
	CreatedAt        time.Time          `json:"created_at"`
}

// NonHostPlayerCount returns the number of joined players. The host is never
// a map key, so this is simply the map size.
func (r *Room) NonHostPlayerCount() int {
	return len(r.Players)
}
