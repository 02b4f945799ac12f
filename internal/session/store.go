package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RishabParuchuri/QuickPicks/internal/models"
)

// Session aggregates one room with its transient bet set and per-prompt
// result history. All mutation of a session goes through its mutex; callers
// in this package lock it around every externally visible state change so
// each change appears atomic to concurrent joins, bets and timer callbacks.
type Session struct {
	mu sync.Mutex

	room *models.Room

	// Prompt script for the room's game, fixed at start-game time.
	script []models.Prompt

	// Bets on the current prompt, keyed by player name. Cleared on resolve.
	bets map[string]models.Bet

	// Resolved results per prompt id: player name -> points delta.
	results map[string]map[string]int
}

// leaderboardLocked builds the score ranking, descending. Ties keep a stable
// name order. Callers must hold the session mutex.
func (s *Session) leaderboardLocked() []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(s.room.Players))
	for _, player := range s.room.Players {
		entries = append(entries, LeaderboardEntry{
			Name:       player.Name,
			Score:      player.Score,
			CurrentBet: player.CurrentBet,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// snapshotLocked copies the room state into a marshal-safe value. Callers
// must hold the session mutex.
func (s *Session) snapshotLocked() RoomSnapshot {
	players := make(map[string]models.Player, len(s.room.Players))
	for name, player := range s.room.Players {
		players[name] = *player
	}

	var current *models.Prompt
	if s.room.CurrentPrompt != nil {
		prompt := *s.room.CurrentPrompt
		current = &prompt
	}

	completed := make([]models.Prompt, len(s.room.CompletedPrompts))
	copy(completed, s.room.CompletedPrompts)

	return RoomSnapshot{
		ID:               s.room.ID,
		Name:             s.room.Name,
		GameName:         s.room.GameName,
		HostName:         s.room.HostName,
		Players:          players,
		CurrentPrompt:    current,
		CompletedPrompts: completed,
		Status:           s.room.Status,
		CreatedAt:        s.room.CreatedAt,
	}
}

// Store owns the set of live rooms keyed by room identifier.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty room store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Create makes a new waiting room with a fresh 8-character identifier.
func (s *Store) Create(name, gameName, hostName string, now time.Time) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	for {
		id = uuid.NewString()[:8]
		if _, exists := s.sessions[id]; !exists {
			break
		}
	}

	sess := &Session{
		room: &models.Room{
			ID:               id,
			Name:             name,
			GameName:         gameName,
			HostName:         hostName,
			Players:          make(map[string]*models.Player),
			CompletedPrompts: []models.Prompt{},
			Status:           models.GameStatusWaiting,
			CreatedAt:        now,
		},
		bets:    make(map[string]models.Bet),
		results: make(map[string]map[string]int),
	}
	s.sessions[id] = sess
	return sess
}

// Get returns the session for a room id.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}
