package room

import (
	"encoding/json"
	"log/slog"
)

// Hub is the central brain of the coordination server.
// It owns all room state and processes every mutation on a single
// goroutine, so joins, leaves and broadcasts within a room are
// serialized in arrival order and no locking is needed.
type Hub struct {
	// Rooms maps room IDs to Room instances.
	Rooms map[string]*Room

	// clients is the connection registry: every live transport
	// connection, whether or not it has joined a room yet.
	clients map[string]*Client

	// Register is a channel for registering new clients.
	Register chan *Client

	// Unregister is a channel for unregistering clients on disconnect.
	Unregister chan *Client

	// Inbound carries client messages into the hub loop.
	Inbound chan *Message

	// snapshots services read-only state queries (the /rooms endpoint)
	// from inside the loop, keeping the single-writer model intact.
	snapshots chan chan []RoomInfo

	// handlers dispatches inbound messages by event name.
	handlers map[string]func(*Client, *Message)
}

// RoomInfo is the external, read-only view of one room.
type RoomInfo struct {
	ID           string          `json:"roomId"`
	Participants []string        `json:"participants"`
	Roles        map[string]Role `json:"roles"`
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	h := &Hub{
		Rooms:      make(map[string]*Room),
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Inbound:    make(chan *Message),
		snapshots:  make(chan chan []RoomInfo),
	}
	h.handlers = map[string]func(*Client, *Message){
		EventJoinRoom:      h.handleJoin,
		EventPushProblem:   h.handlePushProblem,
		EventCodeExecution: h.handleCodeExecution,
		EventPing:          h.handlePing,
		EventOffer:         h.handleSignal,
		EventAnswer:        h.handleSignal,
		EventICECandidate:  h.handleSignal,
		EventDocUpdate:     h.handleDocUpdate,
	}
	return h
}

// Run starts the hub's main processing loop.
// This is the single goroutine that safely manages all state (rooms,
// clients, role maps).
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client.ID] = client
			// Tell the client its connection ID straight away so it can
			// find itself in roster broadcasts.
			b, _ := json.Marshal(connectedPayload{ConnectionID: client.ID})
			client.trySend(&Message{Event: EventConnected, Payload: b})
			slog.Debug("client registered", "conn", client.ID)

		case client := <-h.Unregister:
			h.removeClient(client)

		case message := <-h.Inbound:
			handler, ok := h.handlers[message.Event]
			if !ok {
				slog.Warn("unknown event", "event", message.Event, "conn", message.sender.ID)
				continue
			}
			handler(message.sender, message)

		case reply := <-h.snapshots:
			reply <- h.snapshot()
		}
	}
}

// RoomList returns a point-in-time view of all rooms. It round-trips
// through the hub loop, so it is safe to call from any goroutine.
func (h *Hub) RoomList() []RoomInfo {
	reply := make(chan []RoomInfo, 1)
	h.snapshots <- reply
	return <-reply
}

func (h *Hub) snapshot() []RoomInfo {
	infos := make([]RoomInfo, 0, len(h.Rooms))
	for _, r := range h.Rooms {
		roles := make(map[string]Role, len(r.Roles))
		for name, role := range r.Roles {
			roles[name] = role
		}
		infos = append(infos, RoomInfo{
			ID:           r.ID,
			Participants: r.participantIDs(),
			Roles:        roles,
		})
	}
	return infos
}

// handleJoin registers the sender in the requested room, resolves its
// role, and announces the new roster to the whole room. The role grant
// goes to the joiner alone.
func (h *Hub) handleJoin(c *Client, m *Message) {
	if m.Room == "" || m.User == "" {
		h.sendError(c, "join-room requires roomId and userName")
		return
	}

	roomState, ok := h.Rooms[m.Room]
	if !ok {
		roomState = newRoom(m.Room)
		h.Rooms[m.Room] = roomState
	}

	c.Name = m.User
	roomState.Participants[c.ID] = c
	roomState.Doc.Attach(c)

	role := assignRole(roomState.Roles, m.User)

	h.broadcastRoster(roomState, c.ID, "")

	b, _ := json.Marshal(rolePayload{Role: role})
	c.trySend(&Message{Event: EventRoleAssigned, Payload: b})

	slog.Info("client joined room",
		"room", roomState.ID, "conn", c.ID, "user", m.User, "role", role)
}

// handlePushProblem fans a problem assignment out to the whole room,
// sender included, so the initiator sees the same confirmation as
// everyone else.
func (h *Hub) handlePushProblem(c *Client, m *Message) {
	roomState := h.lookupRoom(c, m.Room)
	if roomState == nil {
		return
	}
	out := &Message{Event: EventProblemPushed, Payload: m.Payload}
	for _, peer := range roomState.Participants {
		peer.trySend(out)
	}
}

// handleCodeExecution broadcasts an execution result to the whole room,
// sender included, tagged with the originating display name.
func (h *Hub) handleCodeExecution(c *Client, m *Message) {
	roomState := h.lookupRoom(c, m.Room)
	if roomState == nil {
		return
	}
	out := &Message{Event: EventExecutionResult, User: m.User, Payload: m.Payload}
	for _, peer := range roomState.Participants {
		peer.trySend(out)
	}
}

func (h *Hub) handlePing(c *Client, _ *Message) {
	c.trySend(&Message{Event: EventPong})
}

// handleSignal relays a WebRTC negotiation message (offer, answer or
// ICE candidate) to every other connection in the room. The payload is
// opaque: it is forwarded unexamined, and it never loops back to the
// sender.
func (h *Hub) handleSignal(c *Client, m *Message) {
	roomState := h.lookupRoom(c, m.Room)
	if roomState == nil {
		return
	}
	out := &Message{Event: m.Event, Payload: m.Payload}
	for id, peer := range roomState.Participants {
		if id == c.ID {
			continue
		}
		peer.trySend(out)
	}
}

func (h *Hub) handleDocUpdate(c *Client, m *Message) {
	roomState := h.lookupRoom(c, m.Room)
	if roomState == nil {
		return
	}
	roomState.Doc.Relay(c, m)
}

// removeClient handles transport disconnect. It scans every room for
// the connection, removes it, notifies the survivors, and deletes any
// room left empty. Calling it for an unknown client is a no-op, so a
// double disconnect is harmless.
func (h *Hub) removeClient(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)

	for id, roomState := range h.Rooms {
		if _, ok := roomState.Participants[c.ID]; !ok {
			continue
		}
		delete(roomState.Participants, c.ID)
		roomState.Doc.Detach(c.ID)

		if len(roomState.Participants) == 0 {
			delete(h.Rooms, id)
			slog.Info("room deleted", "room", id)
			continue
		}
		h.broadcastRoster(roomState, "", c.ID)
	}

	// Close the client's send channel to stop its writePump. Must come
	// after the room scan so no broadcast can hit a closed channel.
	close(c.Send)
	slog.Debug("client unregistered", "conn", c.ID)
}

func (h *Hub) broadcastRoster(r *Room, joinedID, leftID string) {
	b, _ := json.Marshal(rosterPayload{
		Participants: r.participantIDs(),
		JoinedUserID: joinedID,
		LeftUserID:   leftID,
	})
	out := &Message{Event: EventRoomParticipants, Room: r.ID, Payload: b}
	for _, peer := range r.Participants {
		peer.trySend(out)
	}
}

// lookupRoom resolves the room a scoped event names, replying with an
// error event when it does not exist.
func (h *Hub) lookupRoom(c *Client, roomID string) *Room {
	roomState, ok := h.Rooms[roomID]
	if !ok {
		slog.Debug("event for unknown room", "room", roomID, "conn", c.ID)
		h.sendError(c, "room not found")
		return nil
	}
	return roomState
}

func (h *Hub) sendError(c *Client, reason string) {
	b, _ := json.Marshal(errorPayload{Error: reason})
	c.trySend(&Message{Event: EventError, Payload: b})
}
