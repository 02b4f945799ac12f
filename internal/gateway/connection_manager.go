package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/RishabParuchuri/QuickPicks/internal/session"
)

// ConnectionManager manages WebSocket connections for live rooms. It
// implements session.Notifier: all outbound traffic funnels through a single
// consumer goroutine, so messages issued in sequence by one caller reach
// every recipient in that same relative order.
type ConnectionManager struct {
	// Connection pools organized by room ID
	roomConnections map[string]map[*Connection]bool
	mu              sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	outboundCh chan outboundMessage
}

// Connection represents a WebSocket connection tagged with the player
// identity it represents. Send is never closed; delivery to an unregistered
// connection lands in a buffer nobody drains. The write pump exits when done
// is closed, which happens exactly once, under the manager lock, when the
// connection leaves its pool.
type Connection struct {
	ID         string
	PlayerName string
	RoomID     string
	Conn       *websocket.Conn
	Send       chan []byte
	done       chan struct{}
	Manager    *ConnectionManager

	ConnectedAt time.Time
}

// ConnectionConfig holds configuration for WebSocket connections.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// outboundMessage is a queued delivery. PlayerName narrows delivery to one
// player's connections; empty means the whole room.
type outboundMessage struct {
	roomID     string
	playerName string
	message    session.Message
}

// DefaultConnectionConfig returns default WebSocket configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  4096,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins for the mobile/web client - restrict in production
			return true
		},
	}
}

// NewConnectionManager creates a new WebSocket connection manager.
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		roomConnections: make(map[string]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:     config,
		outboundCh: make(chan outboundMessage, 1000),
	}
}

// Start begins processing outbound messages until the context is cancelled.
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			return
		case msg := <-cm.outboundCh:
			cm.deliver(msg)
		}
	}
}

// Upgrade upgrades an HTTP request to a raw WebSocket connection. The
// session handler completes the join handshake before registering it.
func (cm *ConnectionManager) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return cm.upgrader.Upgrade(w, r, nil)
}

// Register records a handshaken connection under its room and player
// identity and starts its write pump.
func (cm *ConnectionManager) Register(conn *websocket.Conn, roomID, playerName string) *Connection {
	connection := &Connection{
		ID:          uuid.NewString(),
		PlayerName:  playerName,
		RoomID:      roomID,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		done:        make(chan struct{}),
		Manager:     cm,
		ConnectedAt: time.Now(),
	}

	cm.mu.Lock()
	if cm.roomConnections[roomID] == nil {
		cm.roomConnections[roomID] = make(map[*Connection]bool)
	}
	cm.roomConnections[roomID][connection] = true
	total := len(cm.roomConnections[roomID])
	cm.mu.Unlock()

	go connection.writePump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("player", playerName).
		Str("room_id", roomID).
		Int("room_connections", total).
		Msg("connection registered")
	return connection
}

// Unregister removes a connection from its room pool and signals its write
// pump to exit. The Send channel stays open: the delivery loop may still
// hold a reference from a snapshot taken before removal, and a send on a
// closed channel would take the whole process down.
func (cm *ConnectionManager) Unregister(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if connections, exists := cm.roomConnections[conn.RoomID]; exists {
		if _, exists := connections[conn]; exists {
			delete(connections, conn)
			close(conn.done)

			if len(connections) == 0 {
				delete(cm.roomConnections, conn.RoomID)
			}

			log.Info().
				Str("connection_id", conn.ID).
				Str("player", conn.PlayerName).
				Str("room_id", conn.RoomID).
				Msg("connection unregistered")
		}
	}
}

// BroadcastToRoom queues a message for every connection in a room.
func (cm *ConnectionManager) BroadcastToRoom(roomID string, msg session.Message) {
	select {
	case cm.outboundCh <- outboundMessage{roomID: roomID, message: msg}:
	default:
		log.Warn().Str("room_id", roomID).Msg("outbound channel full, dropping broadcast")
	}
}

// SendToPlayer queues a message for one player's connections in a room.
func (cm *ConnectionManager) SendToPlayer(roomID, playerName string, msg session.Message) {
	select {
	case cm.outboundCh <- outboundMessage{roomID: roomID, playerName: playerName, message: msg}:
	default:
		log.Warn().
			Str("room_id", roomID).
			Str("player", playerName).
			Msg("outbound channel full, dropping personal message")
	}
}

// deliver fans a queued message out to its recipients, pruning connections
// that cannot keep up. A dead recipient never fails the delivery as a whole.
func (cm *ConnectionManager) deliver(msg outboundMessage) {
	cm.mu.RLock()
	connections, exists := cm.roomConnections[msg.roomID]
	if !exists {
		cm.mu.RUnlock()
		return
	}

	// Snapshot recipients so the lock is not held during delivery.
	var targets []*Connection
	for conn := range connections {
		if msg.playerName != "" && conn.PlayerName != msg.playerName {
			continue
		}
		targets = append(targets, conn)
	}
	cm.mu.RUnlock()

	payload, err := json.Marshal(msg.message)
	if err != nil {
		log.Error().Err(err).Str("type", string(msg.message.Type)).Msg("failed to marshal outbound message")
		return
	}

	for _, conn := range targets {
		select {
		case conn.Send <- payload:
		default:
			log.Warn().
				Str("connection_id", conn.ID).
				Str("player", conn.PlayerName).
				Msg("connection send buffer full, closing connection")
			cm.Unregister(conn)
			conn.Conn.Close()
		}
	}

	log.Debug().
		Str("type", string(msg.message.Type)).
		Str("room_id", msg.roomID).
		Int("recipients", len(targets)).
		Msg("message delivered")
}

// ConnectionStats returns counts of active connections per room.
func (cm *ConnectionManager) ConnectionStats() (total int, rooms map[string]int) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	rooms = make(map[string]int, len(cm.roomConnections))
	for roomID, connections := range cm.roomConnections {
		rooms[roomID] = len(connections)
		total += len(connections)
	}
	return total, rooms
}

// writePump sends queued messages and pings to the WebSocket connection.
// Any exit path removes the connection from its pool, so a write failure
// prunes the connection immediately instead of waiting for the read side.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Manager.Unregister(c)
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
