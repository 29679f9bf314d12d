package room

// Room is the per-room slice of hub state: the set of connections that
// joined it and the stable display-name-to-role assignments. Rooms are
// created lazily on first join and deleted as soon as the last
// participant disconnects; no room survives a period with zero
// participants.
type Room struct {
	// ID is the externally supplied room key.
	ID string

	// Participants maps connection IDs to their clients. Map semantics
	// give the uniqueness invariant for free: re-joining is a no-op
	// insert.
	Participants map[string]*Client

	// Roles maps display names to assigned roles. The display name is
	// the per-room identity key, so a reconnect under the same name
	// resolves to the same role.
	Roles map[string]Role

	// Doc is the room's shared-document sync channel.
	Doc *DocChannel
}

func newRoom(id string) *Room {
	return &Room{
		ID:           id,
		Participants: make(map[string]*Client),
		Roles:        make(map[string]Role),
		Doc:          newDocChannel(),
	}
}

// participantIDs returns the connection IDs currently in the room.
// Order is unspecified; clients treat the roster as a set.
func (r *Room) participantIDs() []string {
	ids := make([]string, 0, len(r.Participants))
	for id := range r.Participants {
		ids = append(ids, id)
	}
	return ids
}
