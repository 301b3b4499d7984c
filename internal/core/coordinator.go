package core

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// Coordinator sequences membership transitions against the Store and decides
// the broadcasts each transition requires. Every transition runs to
// completion and returns its full broadcast set; nothing is delivered from
// here. Not safe for concurrent use: the transport hub owns the Coordinator
// and serializes all calls through a single goroutine, which makes each
// transition a critical section without locks.
type Coordinator struct {
	store *Store
	conns map[string]struct{} // open sessions, transport bookkeeping
	log   *zerolog.Logger
}

// NewCoordinator builds a coordinator over the given store.
func NewCoordinator(store *Store, logger *zerolog.Logger) *Coordinator {
	return &Coordinator{
		store: store,
		conns: make(map[string]struct{}),
		log:   logger,
	}
}

// Connect registers a new session and acknowledges it.
func (c *Coordinator) Connect(sid string) []Broadcast {
	c.conns[sid] = struct{}{}
	c.log.Debug().Str("sid", sid).Msg("client connected")
	return []Broadcast{{
		Event:  EventConnected,
		Target: ToConn(sid),
		Data:   fmt.Sprintf("id: %s is connected", sid),
	}}
}

// SetName binds a display name to sid (overwriting any prior name) and places
// the connection into the lobby. The acting connection also receives the room
// directory. Duplicate display names are allowed.
func (c *Coordinator) SetName(sid, name string) []Broadcast {
	if _, ok := c.conns[sid]; !ok {
		return nil
	}
	c.store.SetUserName(sid, name)
	c.log.Info().Str("sid", sid).Str("user", name).Msg("name set")

	out, _ := c.moveTo(sid, LobbyRoom)
	return append(out, c.directory(ToConn(sid)))
}

// CreateRoom registers a new room and moves the creator into it. The new
// room's member list goes to its occupants and the updated directory to all
// connections. A duplicate name is silently discarded: no mutation, no
// broadcast, only the returned result distinguishes the cases.
func (c *Coordinator) CreateRoom(sid, name string) ([]Broadcast, Result) {
	if _, ok := c.conns[sid]; !ok {
		return nil, ResultUnknownConn
	}
	if _, ok := c.store.UserName(sid); !ok {
		return nil, ResultNotIdentified
	}
	if !c.store.CreateRoom(name) {
		c.log.Debug().Str("sid", sid).Str("room", name).Msg("room already exists")
		return nil, ResultRoomExists
	}
	c.log.Info().Str("sid", sid).Str("room", name).Msg("room created")

	out, _ := c.moveTo(sid, name)
	return append(out, c.directory(ToAll())), ResultOK
}

// JoinGame moves sid into the target room and refreshes the acting
// connection's directory view. Unknown rooms and unidentified connections
// degrade to no-ops.
func (c *Coordinator) JoinGame(sid, target string) ([]Broadcast, Result) {
	out, res := c.moveTo(sid, target)
	if !res.OK() {
		c.log.Debug().Str("sid", sid).Str("room", target).Str("result", string(res)).Msg("join ignored")
		return nil, res
	}
	return append(out, c.directory(ToConn(sid))), ResultOK
}

// LeaveGame returns sid to the lobby.
func (c *Coordinator) LeaveGame(sid string) []Broadcast {
	out, _ := c.moveTo(sid, LobbyRoom)
	return out
}

// ShowRooms sends the room directory to one connection, or to every
// connection when sid is empty.
func (c *Coordinator) ShowRooms(sid string) []Broadcast {
	if sid == "" {
		return []Broadcast{c.directory(ToAll())}
	}
	return []Broadcast{c.directory(ToConn(sid))}
}

// Disconnect removes sid from its room and from the user mapping, then
// announces the departure to all connections. A second call for the same sid
// is a no-op.
func (c *Coordinator) Disconnect(sid string) []Broadcast {
	if _, ok := c.conns[sid]; !ok {
		return nil
	}
	delete(c.conns, sid)

	var out []Broadcast
	// Defensive sweep: exactly one room under the invariant, but tolerate
	// none or several without crashing.
	for _, room := range c.store.CurrentRoomsOf(sid) {
		if _, removed := c.store.RemoveMember(room, sid); removed {
			out = append(out, c.memberList(room))
		}
	}
	if name, ok := c.store.RemoveUser(sid); ok {
		c.log.Info().Str("sid", sid).Str("user", name).Msg("user disconnected")
	} else {
		c.log.Debug().Str("sid", sid).Msg("unnamed client disconnected")
	}
	return append(out, Broadcast{
		Event:  EventDisconnected,
		Target: ToAll(),
		Data:   fmt.Sprintf("user %s disconnected", sid),
	})
}

// moveTo implements the leave-then-join invariant: vacate every other room
// first (broadcasting each vacated room's updated member list), then insert
// into the target and broadcast its member list. Removal always precedes
// insertion so no observer ever sees double membership.
func (c *Coordinator) moveTo(sid, target string) ([]Broadcast, Result) {
	if _, ok := c.conns[sid]; !ok {
		return nil, ResultUnknownConn
	}
	name, ok := c.store.UserName(sid)
	if !ok {
		return nil, ResultNotIdentified
	}
	if !c.store.RoomExists(target) {
		return nil, ResultRoomNotFound
	}

	var out []Broadcast
	for _, room := range c.store.CurrentRoomsOf(sid) {
		if room == target {
			continue
		}
		if _, removed := c.store.RemoveMember(room, sid); removed {
			c.log.Debug().Str("user", name).Str("room", room).Msg("leaving room")
			out = append(out, c.memberList(room))
		}
	}
	c.store.AddMember(target, sid, name)
	c.log.Debug().Str("user", name).Str("room", target).Msg("joining room")
	return append(out, c.memberList(target)), ResultOK
}

// memberList builds the current member-list broadcast for a room, addressed
// to its occupants. Entries are ordered by SID for deterministic output.
func (c *Coordinator) memberList(room string) Broadcast {
	members := c.store.RoomMembers(room)
	users := make([]UserEntry, 0, len(members))
	for sid, name := range members {
		users = append(users, UserEntry{SID: sid, Name: name})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].SID < users[j].SID })
	return Broadcast{Event: EventUserList, Target: ToRoom(room), Users: users}
}

// directory builds the room-directory broadcast for the given target.
func (c *Coordinator) directory(target Target) Broadcast {
	return Broadcast{Event: EventRoomDirectory, Target: target, Rooms: c.store.ListRooms()}
}
