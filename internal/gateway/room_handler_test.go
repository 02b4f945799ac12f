package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RishabParuchuri/QuickPicks/internal/catalog"
	"github.com/RishabParuchuri/QuickPicks/internal/session"
)

type fakeRoomApp struct {
	createErr   error
	snapshot    session.RoomSnapshot
	leaderboard []session.LeaderboardEntry
	snapshotErr error
	adminErr    error

	created []session.RoomSnapshot
	started []string
}

func (f *fakeRoomApp) CreateRoom(name, gameName, hostName string) (session.RoomSnapshot, error) {
	if f.createErr != nil {
		return session.RoomSnapshot{}, f.createErr
	}
	snapshot := session.RoomSnapshot{
		ID:        "room1234",
		Name:      name,
		GameName:  gameName,
		HostName:  hostName,
		CreatedAt: time.Now(),
	}
	f.created = append(f.created, snapshot)
	return snapshot, nil
}

func (f *fakeRoomApp) Snapshot(roomID string) (session.RoomSnapshot, []session.LeaderboardEntry, error) {
	if f.snapshotErr != nil {
		return session.RoomSnapshot{}, nil, f.snapshotErr
	}
	return f.snapshot, f.leaderboard, nil
}

func (f *fakeRoomApp) AdminStartGame(roomID string) error {
	if f.adminErr != nil {
		return f.adminErr
	}
	f.started = append(f.started, roomID)
	return nil
}

func newRoomMux(app *fakeRoomApp) *http.ServeMux {
	mux := http.NewServeMux()
	NewRoomHandler(app, catalog.NewStaticProvider(catalog.DefaultCatalog())).RegisterRoutes(mux)
	return mux
}

func TestHandleCreateRoom(t *testing.T) {
	app := &fakeRoomApp{}
	body := `{"name":"Joe's Bar","game_name":"lions_ravens_demo","host_name":"joe"}`

	rec := httptest.NewRecorder()
	newRoomMux(app).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/create-game", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CreateRoomResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "room1234", resp.RoomID)
	assert.Equal(t, "Room created successfully", resp.Message)

	require.Len(t, app.created, 1)
	assert.Equal(t, "joe", app.created[0].HostName)
}

func TestHandleCreateRoomBadBody(t *testing.T) {
	rec := httptest.NewRecorder()
	newRoomMux(&fakeRoomApp{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/create-game", strings.NewReader("{nope")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetRoom(t *testing.T) {
	app := &fakeRoomApp{
		snapshot:    session.RoomSnapshot{ID: "room1234", Name: "Joe's Bar"},
		leaderboard: []session.LeaderboardEntry{{Name: "alice", Score: 300}},
	}

	rec := httptest.NewRecorder()
	newRoomMux(app).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/room/room1234", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RoomInfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "room1234", resp.Room.ID)
	require.Len(t, resp.Leaderboard, 1)
	assert.Equal(t, 300, resp.Leaderboard[0].Score)
}

func TestHandleGetRoomNotFound(t *testing.T) {
	app := &fakeRoomApp{snapshotErr: session.ErrRoomNotFound}

	rec := httptest.NewRecorder()
	newRoomMux(app).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/room/missing1", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListGames(t *testing.T) {
	rec := httptest.NewRecorder()
	newRoomMux(&fakeRoomApp{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/games", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AvailableGamesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Games, 5)
	assert.Equal(t, catalog.DemoGameID, resp.Games[0].ID)
}

func TestHandleAdminStart(t *testing.T) {
	app := &fakeRoomApp{}

	rec := httptest.NewRecorder()
	newRoomMux(app).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/start-demo/room1234", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"room1234"}, app.started)
}

func TestHandleAdminStartErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	newRoomMux(&fakeRoomApp{adminErr: session.ErrRoomNotFound}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/start-demo/missing1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	newRoomMux(&fakeRoomApp{adminErr: session.ErrGameAlreadyStarted}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/start-demo/room1234", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
