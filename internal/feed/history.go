package feed

import (
	"sync"
)

// DefaultCapacity is how many recent plays are retained per game.
const DefaultCapacity = 100

// Play is one play-by-play record from the upstream feed. Field names match
// the upstream column naming.
type Play struct {
	Quarter            int    `json:"Quarter"`
	DriveNumber        int    `json:"DriveNumber"`
	PlayNumberInDrive  int    `json:"PlayNumberInDrive"`
	PlayOutcome        string `json:"PlayOutcome"`
	PlayDescription    string `json:"PlayDescription"`
	PlayStart          int    `json:"PlayStart"`
	HomeScore          *int   `json:"HomeScore,omitempty"`
	AwayScore          *int   `json:"AwayScore,omitempty"`
	TeamWithPossession string `json:"TeamWithPossession"`
	HomeTeam           string `json:"HomeTeam"`
	AwayTeam           string `json:"AwayTeam"`
}

// History keeps a bounded buffer of the most recent plays per game, in
// arrival order. Oldest plays are dropped once a game reaches capacity.
type History struct {
	mu       sync.RWMutex
	capacity int
	plays    map[string][]Play
}

// NewHistory creates a play history with the given per-game capacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{
		capacity: capacity,
		plays:    make(map[string][]Play),
	}
}

// Append records a play for a game, evicting the oldest once full.
func (h *History) Append(gameID string, play Play) {
	h.mu.Lock()
	defer h.mu.Unlock()

	buffer := h.plays[gameID]
	if len(buffer) >= h.capacity {
		copy(buffer, buffer[1:])
		buffer = buffer[:len(buffer)-1]
	}
	h.plays[gameID] = append(buffer, play)
}

// Last returns up to the last n plays for a game in chronological order.
// Unknown games return an empty slice.
func (h *History) Last(gameID string, n int) []Play {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buffer := h.plays[gameID]
	if n > len(buffer) {
		n = len(buffer)
	}
	if n <= 0 {
		return []Play{}
	}

	out := make([]Play, n)
	copy(out, buffer[len(buffer)-n:])
	return out
}
