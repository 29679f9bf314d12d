package room

// Role labels a display name's position in an interview room.
type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleCandidate   Role = "candidate"
)

// assignRole resolves the stable role for a display name in a room.
//
// A name that already has an entry keeps it unchanged, whatever the
// current room population looks like. Otherwise the first distinct name
// to hit an empty role map becomes the interviewer and every later name
// becomes a candidate. The function is pure over the role map, with no
// randomness, so a given join order always produces the same roles.
func assignRole(roles map[string]Role, userName string) Role {
	if r, ok := roles[userName]; ok {
		return r
	}

	role := RoleInterviewer
	for _, existing := range roles {
		if existing == RoleInterviewer {
			role = RoleCandidate
			break
		}
	}

	roles[userName] = role
	return role
}
