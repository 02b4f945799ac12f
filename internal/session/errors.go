package session

import (
	"errors"
)

// Errors surfaced to the transport layer. Invalid-action errors are reported
// to the offending connection as an error message; the session keeps running.
var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrNoActivePrompt     = errors.New("no active betting event")
	ErrBettingClosed      = errors.New("betting window has closed")
	ErrUnknownChoice      = errors.New("unknown answer choice")
	ErrUnknownPlayer      = errors.New("player has not joined this room")
	ErrInsufficientScore  = errors.New("not enough points to place wager")
	ErrNotHost            = errors.New("only the host can start the game")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrNoPlayers          = errors.New("cannot start game: no players have joined yet")
	ErrGameNotScripted    = errors.New("no prompts available for this game")
)
