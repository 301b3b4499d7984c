package core

// EventKind is a notification the core instructs the transport to deliver.
type EventKind int

const (
	// EventConnected acknowledges a newly accepted connection.
	EventConnected EventKind = iota
	// EventUserList carries the full current membership of one room.
	EventUserList
	// EventRoomDirectory carries every room and its members.
	EventRoomDirectory
	// EventDisconnected announces that a session identifier went away.
	EventDisconnected
)

// TargetKind selects the delivery scope of a broadcast.
type TargetKind int

const (
	// TargetConn delivers to a single connection.
	TargetConn TargetKind = iota
	// TargetRoom delivers to every current occupant of one room.
	TargetRoom
	// TargetAll delivers to every open connection.
	TargetAll
)

// Target names the recipients of a broadcast.
type Target struct {
	Kind TargetKind
	SID  string // set for TargetConn
	Room string // set for TargetRoom
}

// ToConn targets a single connection.
func ToConn(sid string) Target { return Target{Kind: TargetConn, SID: sid} }

// ToRoom targets the occupants of one room.
func ToRoom(room string) Target { return Target{Kind: TargetRoom, Room: room} }

// ToAll targets every open connection.
func ToAll() Target { return Target{Kind: TargetAll} }

// UserEntry is one (sid, display name) pair of a member list, ordered by SID.
type UserEntry struct {
	SID  string
	Name string
}

// Broadcast is one outbound delivery instruction produced by a Coordinator
// transition. Transitions return these instead of touching the transport, so
// the state machine stays testable by asserting on the returned slice.
// Per-room order within a slice is significant: a vacated room's member list
// always precedes the joined room's.
type Broadcast struct {
	Event  EventKind
	Target Target
	Users  []UserEntry // EventUserList
	Rooms  []RoomEntry // EventRoomDirectory
	Data   string      // EventConnected, EventDisconnected
}
