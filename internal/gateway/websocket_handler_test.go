package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RishabParuchuri/QuickPicks/internal/session"
)

type fakeSessionApp struct {
	mu          sync.Mutex
	exists      bool
	joinErr     error
	betErr      error
	startErr    error
	joins       []string
	bets        []int
	starts      []string
	disconnects []string
}

func (f *fakeSessionApp) RoomExists(roomID string) bool { return f.exists }

func (f *fakeSessionApp) Join(roomID, playerName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.joinErr != nil {
		return f.joinErr
	}
	f.joins = append(f.joins, playerName)
	return nil
}

func (f *fakeSessionApp) SubmitBet(roomID, playerName string, answerID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.betErr != nil {
		return f.betErr
	}
	f.bets = append(f.bets, answerID)
	return nil
}

func (f *fakeSessionApp) StartGame(roomID, requesterName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.starts = append(f.starts, requesterName)
	return nil
}

func (f *fakeSessionApp) HandleDisconnect(roomID, playerName string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects = append(f.disconnects, playerName)
}

func (f *fakeSessionApp) snapshot() fakeSessionApp {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fakeSessionApp{
		joins:       append([]string(nil), f.joins...),
		bets:        append([]int(nil), f.bets...),
		starts:      append([]string(nil), f.starts...),
		disconnects: append([]string(nil), f.disconnects...),
	}
}

// startSessionServer runs the WebSocket handler over a live connection
// manager and returns a dialable ws:// base URL.
func startSessionServer(t *testing.T, app *fakeSessionApp) (string, *ConnectionManager) {
	t.Helper()
	manager := NewConnectionManager(DefaultConnectionConfig())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go manager.Start(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws/{room_id}", NewSessionHandler(manager, app).HandleSessionConnection)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return strings.Replace(server.URL, "http", "ws", 1), manager
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readCloseCode(t *testing.T, conn *websocket.Conn) int {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.True(t, errors.As(err, &closeErr), "expected a close frame, got %v", err)
	return closeErr.Code
}

func sendFrame(t *testing.T, conn *websocket.Conn, msgType session.MessageType, data any) {
	t.Helper()
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	frame, err := json.Marshal(map[string]any{"type": msgType, "data": json.RawMessage(payload)})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

func TestUnknownRoomIsRejected(t *testing.T) {
	url, _ := startSessionServer(t, &fakeSessionApp{exists: false})

	conn := dial(t, url+"/ws/missing1")

	assert.Equal(t, CloseCodeRoomNotFound, readCloseCode(t, conn))
}

func TestFirstFrameMustBeJoin(t *testing.T) {
	app := &fakeSessionApp{exists: true}
	url, _ := startSessionServer(t, app)

	conn := dial(t, url+"/ws/room1234")
	sendFrame(t, conn, session.MessageTypePlaceBet, map[string]int{"answer_id": 1})

	assert.Equal(t, CloseCodeProtocolError, readCloseCode(t, conn))
	assert.Empty(t, app.snapshot().joins)
}

func TestJoinRequiresPlayerName(t *testing.T) {
	app := &fakeSessionApp{exists: true}
	url, _ := startSessionServer(t, app)

	conn := dial(t, url+"/ws/room1234")
	sendFrame(t, conn, session.MessageTypeJoinRoom, map[string]string{"player_name": "   "})

	assert.Equal(t, CloseCodeProtocolError, readCloseCode(t, conn))
	assert.Empty(t, app.snapshot().joins)
}

func TestJoinRoutesAndRegistersConnection(t *testing.T) {
	app := &fakeSessionApp{exists: true}
	url, manager := startSessionServer(t, app)

	conn := dial(t, url+"/ws/room1234")
	sendFrame(t, conn, session.MessageTypeJoinRoom, map[string]string{"player_name": " alice "})

	assert.Eventually(t, func() bool {
		return len(app.snapshot().joins) == 1
	}, 2*time.Second, 10*time.Millisecond)
	// The handshake trims surrounding whitespace from the name.
	assert.Equal(t, "alice", app.snapshot().joins[0])

	total, rooms := manager.ConnectionStats()
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, rooms["room1234"])

	sendFrame(t, conn, session.MessageTypePlaceBet, map[string]int{"answer_id": 2})
	sendFrame(t, conn, session.MessageTypeStartGame, nil)

	assert.Eventually(t, func() bool {
		got := app.snapshot()
		return len(got.bets) == 1 && len(got.starts) == 1
	}, 2*time.Second, 10*time.Millisecond)
	got := app.snapshot()
	assert.Equal(t, []int{2}, got.bets)
	assert.Equal(t, []string{"alice"}, got.starts)

	conn.Close()
	assert.Eventually(t, func() bool {
		return len(app.snapshot().disconnects) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		total, _ := manager.ConnectionStats()
		return total == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRejectedOperationsComeBackAsErrors(t *testing.T) {
	app := &fakeSessionApp{exists: true, betErr: session.ErrBettingClosed}
	url, _ := startSessionServer(t, app)

	conn := dial(t, url+"/ws/room1234")
	sendFrame(t, conn, session.MessageTypeJoinRoom, map[string]string{"player_name": "alice"})
	sendFrame(t, conn, session.MessageTypePlaceBet, map[string]int{"answer_id": 1})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type session.MessageType `json:"type"`
		Data session.ErrorData   `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, session.MessageTypeError, msg.Type)
	assert.Equal(t, session.ErrBettingClosed.Error(), msg.Data.Message)
}

func TestBroadcastReachesWholeRoomAndPersonalOnlyOne(t *testing.T) {
	app := &fakeSessionApp{exists: true}
	url, manager := startSessionServer(t, app)

	alice := dial(t, url+"/ws/room1234")
	sendFrame(t, alice, session.MessageTypeJoinRoom, map[string]string{"player_name": "alice"})
	bob := dial(t, url+"/ws/room1234")
	sendFrame(t, bob, session.MessageTypeJoinRoom, map[string]string{"player_name": "bob"})

	assert.Eventually(t, func() bool {
		total, _ := manager.ConnectionStats()
		return total == 2
	}, 2*time.Second, 10*time.Millisecond)

	manager.BroadcastToRoom("room1234", session.NewMessage(session.MessageTypeRoomUpdate, nil, time.Now()))
	manager.SendToPlayer("room1234", "alice", session.NewMessage(session.MessageTypeBetConfirmed, nil, time.Now()))

	readType := func(conn *websocket.Conn) session.MessageType {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg struct {
			Type session.MessageType `json:"type"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg.Type
	}

	assert.Equal(t, session.MessageTypeRoomUpdate, readType(alice))
	assert.Equal(t, session.MessageTypeBetConfirmed, readType(alice))
	assert.Equal(t, session.MessageTypeRoomUpdate, readType(bob))

	// Bob never sees alice's personal message.
	bob.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := bob.ReadMessage()
	assert.Error(t, err)
}
