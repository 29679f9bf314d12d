package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/codemeet/collab-server/internal/room"
)

func newTestServer(t *testing.T) (*httptest.Server, *room.Hub) {
	t.Helper()
	hub := room.NewHub()
	go hub.Run()
	ts := httptest.NewServer(NewRouter(hub))
	t.Cleanup(ts.Close)
	return ts, hub
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn, want string) room.Message {
	t.Helper()
	var msg room.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("failed to read %s event: %v", want, err)
	}
	if msg.Event != want {
		t.Fatalf("expected %s event, got %s", want, msg.Event)
	}
	return msg
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status OK, got %v", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "running") {
		t.Errorf("unexpected health body: %q", body)
	}
}

func TestWebSocketJoinFlow(t *testing.T) {
	ts, _ := newTestServer(t)

	alice := dial(t, ts)
	connected := readEvent(t, alice, room.EventConnected)
	var idPayload struct {
		ConnectionID string `json:"connectionId"`
	}
	if err := json.Unmarshal(connected.Payload, &idPayload); err != nil {
		t.Fatalf("failed to decode connected payload: %v", err)
	}
	if idPayload.ConnectionID == "" {
		t.Fatal("expected a connection ID")
	}

	if err := alice.WriteJSON(room.Message{Event: room.EventJoinRoom, Room: "r1", User: "alice"}); err != nil {
		t.Fatalf("failed to send join: %v", err)
	}

	rosterMsg := readEvent(t, alice, room.EventRoomParticipants)
	var rosterPayload struct {
		Participants []string `json:"participants"`
		JoinedUserID string   `json:"joinedUserId"`
	}
	if err := json.Unmarshal(rosterMsg.Payload, &rosterPayload); err != nil {
		t.Fatalf("failed to decode roster payload: %v", err)
	}
	if len(rosterPayload.Participants) != 1 || rosterPayload.Participants[0] != idPayload.ConnectionID {
		t.Errorf("unexpected roster: %v", rosterPayload.Participants)
	}

	roleMsg := readEvent(t, alice, room.EventRoleAssigned)
	var rolePayload struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(roleMsg.Payload, &rolePayload); err != nil {
		t.Fatalf("failed to decode role payload: %v", err)
	}
	if rolePayload.Role != string(room.RoleInterviewer) {
		t.Errorf("expected interviewer, got %s", rolePayload.Role)
	}

	// A second participant shows up on alice's roster too.
	bob := dial(t, ts)
	readEvent(t, bob, room.EventConnected)
	if err := bob.WriteJSON(room.Message{Event: room.EventJoinRoom, Room: "r1", User: "bob"}); err != nil {
		t.Fatalf("failed to send join: %v", err)
	}
	readEvent(t, bob, room.EventRoomParticipants)
	readEvent(t, bob, room.EventRoleAssigned)

	update := readEvent(t, alice, room.EventRoomParticipants)
	if err := json.Unmarshal(update.Payload, &rosterPayload); err != nil {
		t.Fatalf("failed to decode roster payload: %v", err)
	}
	if len(rosterPayload.Participants) != 2 {
		t.Errorf("expected 2 participants, got %v", rosterPayload.Participants)
	}
}

func TestWebSocketPingPong(t *testing.T) {
	ts, _ := newTestServer(t)

	conn := dial(t, ts)
	readEvent(t, conn, room.EventConnected)

	if err := conn.WriteJSON(room.Message{Event: room.EventPing}); err != nil {
		t.Fatalf("failed to send ping: %v", err)
	}
	readEvent(t, conn, room.EventPong)
}

func TestRoomsEndpointReflectsHubState(t *testing.T) {
	ts, hub := newTestServer(t)

	conn := dial(t, ts)
	readEvent(t, conn, room.EventConnected)
	if err := conn.WriteJSON(room.Message{Event: room.EventJoinRoom, Room: "standup", User: "alice"}); err != nil {
		t.Fatalf("failed to send join: %v", err)
	}
	readEvent(t, conn, room.EventRoomParticipants)
	readEvent(t, conn, room.EventRoleAssigned)

	resp, err := http.Get(ts.URL + "/rooms")
	if err != nil {
		t.Fatalf("rooms request failed: %v", err)
	}
	defer resp.Body.Close()

	var rooms []room.RoomInfo
	if err := json.NewDecoder(resp.Body).Decode(&rooms); err != nil {
		t.Fatalf("failed to decode rooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != "standup" {
		t.Errorf("unexpected room inventory: %+v", rooms)
	}
	if rooms[0].Roles["alice"] != room.RoleInterviewer {
		t.Errorf("unexpected roles: %v", rooms[0].Roles)
	}

	// Disconnect and verify the inventory empties out. The hub processes
	// the unregister asynchronously, so poll briefly.
	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if len(hub.RoomList()) == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("room not deleted after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
