package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/mkorobka/lobby-server/internal/config"
	"github.com/mkorobka/lobby-server/internal/core"
	"github.com/mkorobka/lobby-server/internal/proto"
)

type wireMsg struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	store := core.NewStore()
	hub := NewHub(core.NewCoordinator(store, &logger), store, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := NewServer(hub, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := strings.Replace(ts.URL, "http://", "ws://", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

// readEvent reads frames until one with the given event name arrives.
func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) wireMsg {
	t.Helper()

	for {
		var msg wireMsg
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatalf("read while waiting for %q: %v", event, err)
		}
		if msg.Event == event {
			return msg
		}
	}
}

func sendEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event, data string) {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Event: event, Data: raw}); err != nil {
		t.Fatalf("write %q: %v", event, err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketLobbyFlow(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)

	// Handshake acknowledgment carries the assigned sid.
	ack := readEvent(t, ctx, conn, proto.OutboundConnect)
	var connectData proto.ConnectData
	if err := json.Unmarshal(ack.Data, &connectData); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	sid := strings.TrimSuffix(strings.TrimPrefix(connectData.Data, "id: "), " is connected")
	if sid == "" || sid == connectData.Data {
		t.Fatalf("could not extract sid from ack %q", connectData.Data)
	}

	// Identifying places us in the lobby and returns the directory.
	sendEvent(t, ctx, conn, proto.InboundSetName, "alice")

	list := readEvent(t, ctx, conn, proto.OutboundUserList)
	var users proto.UserListData
	if err := json.Unmarshal(list.Data, &users); err != nil {
		t.Fatalf("decode user list: %v", err)
	}
	if len(users.Users) != 1 || users.Users[0] != (proto.UserPair{sid, "alice"}) {
		t.Fatalf("unexpected lobby members: %+v", users.Users)
	}

	dir := readEvent(t, ctx, conn, proto.OutboundRooms)
	var rooms proto.RoomsData
	if err := json.Unmarshal(dir.Data, &rooms); err != nil {
		t.Fatalf("decode rooms: %v", err)
	}
	if len(rooms.Rooms) != 1 || rooms.Rooms[0].Name != core.LobbyRoom {
		t.Fatalf("unexpected directory: %+v", rooms.Rooms)
	}

	// Creating a room moves us out of the lobby and refreshes the directory.
	sendEvent(t, ctx, conn, proto.InboundCreateRoom, "arena")

	list = readEvent(t, ctx, conn, proto.OutboundUserList)
	if err := json.Unmarshal(list.Data, &users); err != nil {
		t.Fatalf("decode user list: %v", err)
	}
	if len(users.Users) != 1 || users.Users[0][1] != "alice" {
		t.Fatalf("unexpected arena members: %+v", users.Users)
	}

	dir = readEvent(t, ctx, conn, proto.OutboundRooms)
	if err := json.Unmarshal(dir.Data, &rooms); err != nil {
		t.Fatalf("decode rooms: %v", err)
	}
	if len(rooms.Rooms) != 2 || rooms.Rooms[1].Name != "arena" {
		t.Fatalf("directory after create: %+v", rooms.Rooms)
	}
	if rooms.Rooms[1].Members[sid] != "alice" {
		t.Fatalf("arena members in directory: %+v", rooms.Rooms[1].Members)
	}
}

func TestRoomsEndpointMirrorsDirectory(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	readEvent(t, ctx, conn, proto.OutboundConnect)
	sendEvent(t, ctx, conn, proto.InboundSetName, "alice")
	readEvent(t, ctx, conn, proto.OutboundRooms)

	resp, err := ts.Client().Get(ts.URL + "/api/rooms")
	if err != nil {
		t.Fatalf("rooms request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var rooms proto.RoomsData
	if err := json.Unmarshal(body, &rooms); err != nil {
		t.Fatalf("decode body %s: %v", body, err)
	}
	if len(rooms.Rooms) != 1 || rooms.Rooms[0].Name != core.LobbyRoom {
		t.Fatalf("unexpected directory: %+v", rooms.Rooms)
	}
	if len(rooms.Rooms[0].Members) != 1 {
		t.Fatalf("lobby should hold the identified client: %+v", rooms.Rooms[0].Members)
	}
}

func TestMalformedFrameDoesNotKillConnection(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	readEvent(t, ctx, conn, proto.OutboundConnect)

	if err := conn.Write(ctx, websocket.MessageText, []byte("not json")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	// The connection survives and keeps serving events.
	sendEvent(t, ctx, conn, proto.InboundSetName, "alice")
	readEvent(t, ctx, conn, proto.OutboundUserList)
}
