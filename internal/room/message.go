package room

import "encoding/json"

// Events received from clients.
const (
	EventJoinRoom      = "join-room"
	EventPushProblem   = "push-problem"
	EventCodeExecution = "code-execution"
	EventPing          = "ping"
	EventOffer         = "offer"
	EventAnswer        = "answer"
	EventICECandidate  = "ice-candidate"
	EventDocUpdate     = "doc-update"
)

// Events sent to clients.
const (
	EventConnected        = "connected"
	EventRoomParticipants = "room-participants"
	EventRoleAssigned     = "role-assigned"
	EventProblemPushed    = "problem-pushed"
	EventExecutionResult  = "execution-result"
	EventPong             = "pong"
	EventError            = "error"
)

// Message defines the structure for all C2S (Client to Server)
// and S2C (Server to Client) websocket messages.
//
// Room and User are envelope-level fields because almost every event
// carries them; event-specific data travels opaquely in Payload. The
// signaling events (offer/answer/ice-candidate) and doc-update are
// relayed with their payload untouched.
type Message struct {
	Event   string          `json:"event"`
	Room    string          `json:"roomId,omitempty"`
	User    string          `json:"userName,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`

	// sender is the client that sent the message.
	// It's used internally by the Hub and not sent over JSON.
	sender *Client `json:"-"`
}

// connectedPayload is pushed to a client right after its transport
// connection is registered, so it can recognize its own identifier in
// later roster broadcasts.
type connectedPayload struct {
	ConnectionID string `json:"connectionId"`
}

// rosterPayload carries the full participant list of a room plus which
// connection joined or left, so clients can tell a roster refresh from
// an arrival or departure.
type rosterPayload struct {
	Participants []string `json:"participants"`
	JoinedUserID string   `json:"joinedUserId,omitempty"`
	LeftUserID   string   `json:"leftUserId,omitempty"`
}

type rolePayload struct {
	Role Role `json:"role"`
}

type errorPayload struct {
	Error string `json:"error"`
}
