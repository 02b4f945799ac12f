package session

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/RishabParuchuri/QuickPicks/internal/catalog"
	"github.com/RishabParuchuri/QuickPicks/internal/models"
)

// Notifier defines what the session app needs from the connection layer.
// Delivery is best effort; a dead recipient never fails the operation.
type Notifier interface {
	BroadcastToRoom(roomID string, msg Message)
	SendToPlayer(roomID, playerName string, msg Message)
}

// App is the session orchestrator. The transport layer calls its public
// operations; the timer engine calls back into it on phase transitions.
type App struct {
	store    *Store
	provider catalog.Provider
	scoring  *Scoring
	notifier Notifier
	clock    clockwork.Clock
	timers   *timerEngine
}

// NewApp creates a session orchestrator.
func NewApp(store *Store, provider catalog.Provider, scoring *Scoring, notifier Notifier, clock clockwork.Clock) *App {
	app := &App{
		store:    store,
		provider: provider,
		scoring:  scoring,
		notifier: notifier,
		clock:    clock,
	}
	app.timers = newTimerEngine(clock, defaultAdvancePause)
	app.timers.app = app
	return app
}

// Close cancels every live timer process. Used on shutdown.
func (a *App) Close() {
	a.timers.cancelAll()
}

// CreateRoom creates a new waiting room hosted by hostName.
func (a *App) CreateRoom(name, gameName, hostName string) (RoomSnapshot, error) {
	if name == "" || gameName == "" || hostName == "" {
		return RoomSnapshot{}, fmt.Errorf("venue name, game name and host name are required")
	}

	sess := a.store.Create(name, gameName, hostName, a.clock.Now())

	sess.mu.Lock()
	snapshot := sess.snapshotLocked()
	sess.mu.Unlock()

	log.Info().
		Str("room_id", snapshot.ID).
		Str("game_name", gameName).
		Str("host_name", hostName).
		Msg("created room")
	return snapshot, nil
}

// RoomExists reports whether a room id is live.
func (a *App) RoomExists(roomID string) bool {
	_, ok := a.store.Get(roomID)
	return ok
}

// Snapshot returns the room state and leaderboard for a room id.
func (a *App) Snapshot(roomID string) (RoomSnapshot, []LeaderboardEntry, error) {
	sess, ok := a.store.Get(roomID)
	if !ok {
		return RoomSnapshot{}, nil, ErrRoomNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshotLocked(), sess.leaderboardLocked(), nil
}

// Join registers a player in the room. Rejoining an existing name is a
// no-op, and the host never gets a player record. The joining connection
// receives a personal snapshot; everyone else gets a room update.
func (a *App) Join(roomID, playerName string) error {
	sess, ok := a.store.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	sess.mu.Lock()
	isHost := playerName == sess.room.HostName
	if !isHost {
		if _, exists := sess.room.Players[playerName]; !exists {
			sess.room.Players[playerName] = models.NewPlayer(playerName, a.clock.Now())
			log.Info().Str("room_id", roomID).Str("player", playerName).Msg("player joined room")
		} else {
			log.Debug().Str("room_id", roomID).Str("player", playerName).Msg("player rejoined room")
		}
	} else {
		log.Info().Str("room_id", roomID).Str("player", playerName).Msg("host connected to room")
	}

	personal := a.message(MessageTypeRoomUpdate, RoomUpdateData{
		Room:        sess.snapshotLocked(),
		Leaderboard: sess.leaderboardLocked(),
	})
	update := a.message(MessageTypeRoomUpdate, RoomUpdateData{
		Room:        sess.snapshotLocked(),
		Leaderboard: sess.leaderboardLocked(),
		Message:     fmt.Sprintf("%s joined the room", playerName),
	})
	sess.mu.Unlock()

	a.notifier.SendToPlayer(roomID, playerName, personal)
	a.notifier.BroadcastToRoom(roomID, update)
	return nil
}

// SubmitBet places playerName's wager on an answer of the current prompt.
// The wager is deducted immediately. The window check is against the
// prompt's expiry timestamp, so a bet racing the close-betting callback is
// still rejected once the window has logically passed. A repeat bet on the
// same prompt changes the choice without charging a second wager.
func (a *App) SubmitBet(roomID, playerName string, answerID int) error {
	sess, ok := a.store.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	sess.mu.Lock()
	prompt := sess.room.CurrentPrompt
	if prompt == nil || prompt.Status != models.PromptStatusActive {
		sess.mu.Unlock()
		return ErrNoActivePrompt
	}
	now := a.clock.Now()
	if prompt.ExpiresAt == nil || now.After(*prompt.ExpiresAt) {
		sess.mu.Unlock()
		return ErrBettingClosed
	}
	if !prompt.HasChoice(answerID) {
		sess.mu.Unlock()
		return ErrUnknownChoice
	}
	player, ok := sess.room.Players[playerName]
	if !ok {
		// The host never has a player record and cannot wager.
		sess.mu.Unlock()
		return ErrUnknownPlayer
	}

	wager := a.scoring.WagerAmount(len(sess.script))
	if _, alreadyBet := sess.bets[playerName]; !alreadyBet {
		if player.Score < wager {
			sess.mu.Unlock()
			return ErrInsufficientScore
		}
		player.Score -= wager
		player.WageredAmount = wager
	}

	choice := answerID
	sess.bets[playerName] = models.Bet{PlayerName: playerName, AnswerID: answerID, SubmittedAt: now}
	player.CurrentBet = &choice

	confirm := a.message(MessageTypeBetConfirmed, BetConfirmedData{
		AnswerID:      answerID,
		WageredAmount: player.WageredAmount,
		Message:       fmt.Sprintf("Bet placed! Wagered %d points", player.WageredAmount),
	})
	update := a.message(MessageTypeRoomUpdate, RoomUpdateData{
		Room:        sess.snapshotLocked(),
		Leaderboard: sess.leaderboardLocked(),
		Message:     fmt.Sprintf("%s placed a bet", playerName),
	})
	sess.mu.Unlock()

	log.Info().
		Str("room_id", roomID).
		Str("player", playerName).
		Int("answer_id", answerID).
		Msg("bet placed")

	a.notifier.SendToPlayer(roomID, playerName, confirm)
	a.notifier.BroadcastToRoom(roomID, update)
	return nil
}

// StartGame transitions a waiting room to in-progress and activates the
// first prompt. Only the host may start, and only with at least one player.
func (a *App) StartGame(roomID, requesterName string) error {
	return a.startGame(roomID, requesterName, false)
}

// AdminStartGame starts a game without the host identity or player-count
// checks. Used by the admin trigger endpoint.
func (a *App) AdminStartGame(roomID string) error {
	return a.startGame(roomID, "", true)
}

func (a *App) startGame(roomID, requesterName string, admin bool) error {
	sess, ok := a.store.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	sess.mu.Lock()
	if !admin && requesterName != sess.room.HostName {
		sess.mu.Unlock()
		return ErrNotHost
	}
	if sess.room.Status != models.GameStatusWaiting {
		sess.mu.Unlock()
		return ErrGameAlreadyStarted
	}
	// The admin trigger may start an empty room; a host start needs at
	// least one joined player.
	if !admin && len(sess.room.Players) == 0 {
		sess.mu.Unlock()
		return ErrNoPlayers
	}

	script := a.provider.PromptsForGame(sess.room.GameName)
	if len(script) == 0 {
		sess.mu.Unlock()
		return ErrGameNotScripted
	}
	sess.script = script
	sess.room.Status = models.GameStatusInProgress
	playerCount := len(sess.room.Players)
	sess.mu.Unlock()

	log.Info().
		Str("room_id", roomID).
		Int("players", playerCount).
		Int("prompts", len(script)).
		Msg("game started")

	a.activateNextPrompt(roomID)
	return nil
}

// HandleDisconnect removes a departing connection's player record and
// withdraws any in-flight bet. Host disconnects never remove room state.
func (a *App) HandleDisconnect(roomID, playerName string) {
	sess, ok := a.store.Get(roomID)
	if !ok {
		return
	}

	sess.mu.Lock()
	if playerName == sess.room.HostName {
		sess.mu.Unlock()
		log.Debug().Str("room_id", roomID).Str("player", playerName).Msg("host disconnected")
		return
	}
	if _, exists := sess.room.Players[playerName]; !exists {
		sess.mu.Unlock()
		return
	}
	delete(sess.room.Players, playerName)
	delete(sess.bets, playerName)

	update := a.message(MessageTypeRoomUpdate, RoomUpdateData{
		Room:        sess.snapshotLocked(),
		Leaderboard: sess.leaderboardLocked(),
		Message:     fmt.Sprintf("%s left the room", playerName),
	})
	sess.mu.Unlock()

	log.Info().Str("room_id", roomID).Str("player", playerName).Msg("player left room")
	a.notifier.BroadcastToRoom(roomID, update)
}

// activateNextPrompt stamps the next pending prompt active, broadcasts it,
// and starts its timer process. No-op when the room is gone, the game is not
// in progress, or the script is exhausted.
func (a *App) activateNextPrompt(roomID string) {
	sess, ok := a.store.Get(roomID)
	if !ok {
		return
	}

	sess.mu.Lock()
	if sess.room.Status != models.GameStatusInProgress {
		sess.mu.Unlock()
		return
	}
	next := len(sess.room.CompletedPrompts)
	if next >= len(sess.script) {
		sess.mu.Unlock()
		return
	}

	prompt := sess.script[next]
	now := a.clock.Now()
	expires := now.Add(prompt.BettingWindow())
	prompt.Status = models.PromptStatusActive
	prompt.CreatedAt = &now
	prompt.ExpiresAt = &expires
	sess.room.CurrentPrompt = &prompt

	msg := a.message(MessageTypeNewPrompt, NewPromptData{
		Prompt:      prompt,
		Leaderboard: sess.leaderboardLocked(),
	})
	promptID := prompt.ID
	window := prompt.BettingWindow()
	delay := prompt.ResolutionDelay()
	sess.mu.Unlock()

	log.Info().
		Str("room_id", roomID).
		Str("prompt_id", promptID).
		Int("sequence", next+1).
		Msg("prompt activated")

	a.notifier.BroadcastToRoom(roomID, msg)
	a.timers.start(roomID, promptID, window, delay)
}

// closeBetting is the first timer phase callback. It re-validates the
// current prompt's identity; a stale timer firing for a superseded prompt is
// a silent no-op. The prompt is not yet marked completed.
func (a *App) closeBetting(roomID, promptID string) {
	sess, ok := a.store.Get(roomID)
	if !ok {
		return
	}

	sess.mu.Lock()
	prompt := sess.room.CurrentPrompt
	if prompt == nil || prompt.ID != promptID {
		sess.mu.Unlock()
		log.Debug().Str("room_id", roomID).Str("prompt_id", promptID).Msg("stale close-betting callback ignored")
		return
	}

	msg := a.message(MessageTypeBettingClosed, BettingClosedData{
		PromptID:            promptID,
		Prompt:              *prompt,
		Leaderboard:         sess.leaderboardLocked(),
		ResolutionInSeconds: prompt.ResolutionDelaySeconds,
	})
	sess.mu.Unlock()

	log.Info().Str("room_id", roomID).Str("prompt_id", promptID).Msg("betting closed")
	a.notifier.BroadcastToRoom(roomID, msg)
}

// resolvePrompt is the second timer phase callback: score the prompt, apply
// deltas, clear bets, and either advance or end the game. Returns true when
// the timer process should terminate (game over or stale callback).
func (a *App) resolvePrompt(roomID, promptID string) bool {
	sess, ok := a.store.Get(roomID)
	if !ok {
		return true
	}

	sess.mu.Lock()
	prompt := sess.room.CurrentPrompt
	if prompt == nil || prompt.ID != promptID {
		sess.mu.Unlock()
		log.Debug().Str("room_id", roomID).Str("prompt_id", promptID).Msg("stale resolve callback ignored")
		return true
	}

	prompt.Status = models.PromptStatusCompleted

	wagers := make(map[string]int, len(sess.bets))
	for name := range sess.bets {
		if player, exists := sess.room.Players[name]; exists {
			wagers[name] = player.WageredAmount
		}
	}
	results := a.scoring.Distribute(sess.bets, wagers, prompt.CorrectAnswerID)

	for name, delta := range results {
		if player, exists := sess.room.Players[name]; exists {
			player.Score += delta
		}
	}
	for _, player := range sess.room.Players {
		player.WageredAmount = 0
		player.CurrentBet = nil
	}

	sess.results[promptID] = results
	sess.room.CompletedPrompts = append(sess.room.CompletedPrompts, *prompt)
	sess.room.CurrentPrompt = nil
	sess.bets = make(map[string]models.Bet)

	resolved := a.message(MessageTypePromptResolved, PromptResolvedData{
		PromptID:          promptID,
		CorrectChoiceID:   prompt.CorrectAnswerID,
		CorrectChoiceText: prompt.CorrectChoiceText(),
		Results:           results,
		Leaderboard:       sess.leaderboardLocked(),
		Prompt:            *prompt,
	})

	finished := len(sess.room.CompletedPrompts) >= len(sess.script)
	var ended Message
	if finished {
		sess.room.Status = models.GameStatusCompleted
		ended = a.message(MessageTypeGameEnded, GameEndedData{
			FinalLeaderboard: sess.leaderboardLocked(),
			TotalPrompts:     len(sess.room.CompletedPrompts),
		})
	}
	sess.mu.Unlock()

	log.Info().
		Str("room_id", roomID).
		Str("prompt_id", promptID).
		Bool("game_finished", finished).
		Msg("prompt resolved")

	a.notifier.BroadcastToRoom(roomID, resolved)
	if finished {
		log.Info().Str("room_id", roomID).Msg("game ended")
		a.notifier.BroadcastToRoom(roomID, ended)
	}
	return finished
}

func (a *App) message(msgType MessageType, data any) Message {
	return NewMessage(msgType, data, a.clock.Now())
}
