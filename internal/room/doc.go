package room

// DocChannel is the room-scoped transport binding for the shared
// document's CRDT sync protocol. The server never interprets or merges
// document updates; it only forwards the protocol's wire messages
// between the connections attached to the channel. Convergence under
// concurrent, out-of-order edits is the CRDT library's guarantee on the
// client side.
type DocChannel struct {
	attached map[string]*Client
}

func newDocChannel() *DocChannel {
	return &DocChannel{attached: make(map[string]*Client)}
}

// Attach binds a connection to the channel. Idempotent.
func (d *DocChannel) Attach(c *Client) {
	d.attached[c.ID] = c
}

// Detach removes a connection. Safe to call for an unknown ID.
func (d *DocChannel) Detach(connID string) {
	delete(d.attached, connID)
}

// Relay forwards a sync message to every attached connection except the
// sender. Updates never echo: the sender's own replica already contains
// the change.
func (d *DocChannel) Relay(from *Client, msg *Message) {
	for id, c := range d.attached {
		if id == from.ID {
			continue
		}
		c.trySend(&Message{Event: EventDocUpdate, Payload: msg.Payload})
	}
}
