package gateway

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/RishabParuchuri/QuickPicks/internal/session"
)

// Close codes for handshake failures.
const (
	CloseCodeProtocolError = 4000
	CloseCodeRoomNotFound  = 4004
)

// handshakeTimeout bounds how long a fresh connection has to send its
// join_room message.
const handshakeTimeout = 10 * time.Second

// SessionApp defines what the WebSocket handler needs from the session
// orchestrator.
type SessionApp interface {
	RoomExists(roomID string) bool
	Join(roomID, playerName string) error
	SubmitBet(roomID, playerName string, answerID int) error
	StartGame(roomID, requesterName string) error
	HandleDisconnect(roomID, playerName string)
}

// SessionHandler upgrades client connections, runs the join handshake, and
// routes inbound session messages into the orchestrator.
type SessionHandler struct {
	manager *ConnectionManager
	app     SessionApp
}

// NewSessionHandler creates a new session WebSocket handler.
func NewSessionHandler(manager *ConnectionManager, app SessionApp) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		app:     app,
	}
}

// inboundMessage is the envelope of a client-to-server frame.
type inboundMessage struct {
	Type session.MessageType `json:"type"`
	Data json.RawMessage     `json:"data"`
}

type joinPayload struct {
	PlayerName string `json:"player_name"`
}

type betPayload struct {
	AnswerID int `json:"answer_id"`
}

// HandleSessionConnection handles GET /ws/{room_id}. The first frame must be
// a join_room message carrying a player name; anything else closes the
// connection with a protocol error code and mutates no state.
func (h *SessionHandler) HandleSessionConnection(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("room_id")

	conn, err := h.manager.Upgrade(w, r)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to upgrade WebSocket connection")
		return
	}

	if !h.app.RoomExists(roomID) {
		closeWith(conn, CloseCodeRoomNotFound, "room not found")
		return
	}

	playerName, ok := h.handshake(conn, roomID)
	if !ok {
		return
	}

	connection := h.manager.Register(conn, roomID, playerName)
	if err := h.app.Join(roomID, playerName); err != nil {
		log.Error().Err(err).Str("room_id", roomID).Str("player", playerName).Msg("join failed")
		h.manager.Unregister(connection)
		closeWith(conn, CloseCodeRoomNotFound, err.Error())
		return
	}

	h.readLoop(connection)
}

// handshake reads and validates the initial join_room frame.
func (h *SessionHandler) handshake(conn *websocket.Conn, roomID string) (string, bool) {
	conn.SetReadDeadline(time.Now().Add(handshakeTimeout))

	_, raw, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return "", false
	}

	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Type != session.MessageTypeJoinRoom {
		closeWith(conn, CloseCodeProtocolError, "must send join_room message first")
		return "", false
	}

	var join joinPayload
	if err := json.Unmarshal(msg.Data, &join); err != nil {
		closeWith(conn, CloseCodeProtocolError, "must send join_room message first")
		return "", false
	}

	playerName := strings.TrimSpace(join.PlayerName)
	if playerName == "" {
		closeWith(conn, CloseCodeProtocolError, "player name required")
		return "", false
	}

	log.Debug().Str("room_id", roomID).Str("player", playerName).Msg("join handshake accepted")
	return playerName, true
}

// readLoop routes inbound frames until the connection drops, then removes
// the player from the room.
func (h *SessionHandler) readLoop(c *Connection) {
	defer func() {
		h.manager.Unregister(c)
		c.Conn.Close()
		h.app.HandleDisconnect(c.RoomID, c.PlayerName)
	}()

	config := h.manager.config
	c.Conn.SetReadLimit(config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(config.ReadTimeout))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("connection_id", c.ID).Msg("unexpected WebSocket close")
			}
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(config.ReadTimeout))

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.sendError(c, "malformed message")
			continue
		}

		switch msg.Type {
		case session.MessageTypePlaceBet:
			var bet betPayload
			if err := json.Unmarshal(msg.Data, &bet); err != nil {
				h.sendError(c, "malformed place_bet message")
				continue
			}
			if err := h.app.SubmitBet(c.RoomID, c.PlayerName, bet.AnswerID); err != nil {
				h.sendError(c, err.Error())
			}

		case session.MessageTypeStartGame:
			if err := h.app.StartGame(c.RoomID, c.PlayerName); err != nil {
				h.sendError(c, err.Error())
			}

		default:
			log.Debug().
				Str("connection_id", c.ID).
				Str("type", string(msg.Type)).
				Msg("ignoring unexpected client message")
		}
	}
}

// sendError reports a user-visible error on the caller's own connection.
// The session continues.
func (h *SessionHandler) sendError(c *Connection, message string) {
	msg := session.NewMessage(session.MessageTypeError, session.ErrorData{Message: message}, time.Now())
	h.manager.SendToPlayer(c.RoomID, c.PlayerName, msg)
}

// closeWith sends a close frame with the given code and closes the
// connection.
func closeWith(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(time.Second)
	conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	conn.Close()
}
