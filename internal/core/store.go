package core

// LobbyRoom is the permanent default room. It exists from process start,
// cannot be deleted, and holds every identified connection that is not
// explicitly in another room.
const LobbyRoom = "lobby"

// RoomEntry pairs a room name with a copy of its sid -> display name member map.
type RoomEntry struct {
	Name    string
	Members map[string]string
}

// Store is the authoritative in-memory mapping of connections to display
// names and of rooms to member sets. It holds no transition logic and emits
// nothing; the Coordinator sequences all mutations. Not safe for concurrent
// use: the transport hub serializes access through a single goroutine.
type Store struct {
	users   map[string]string            // sid -> display name
	rooms   map[string]map[string]string // room -> sid -> display name
	order   []string                     // room creation order, lobby first
	current map[string]string            // sid -> occupied room, reverse index
}

// NewStore builds a store with the lobby room already present.
func NewStore() *Store {
	s := &Store{
		users:   make(map[string]string),
		rooms:   make(map[string]map[string]string),
		current: make(map[string]string),
	}
	s.rooms[LobbyRoom] = make(map[string]string)
	s.order = append(s.order, LobbyRoom)
	return s
}

// SetUserName binds name to sid, overwriting any previous binding.
func (s *Store) SetUserName(sid, name string) {
	s.users[sid] = name
}

// UserName reports the display name bound to sid, if any.
func (s *Store) UserName(sid string) (string, bool) {
	name, ok := s.users[sid]
	return name, ok
}

// RemoveUser drops the name binding for sid and reports the removed name.
func (s *Store) RemoveUser(sid string) (string, bool) {
	name, ok := s.users[sid]
	if !ok {
		return "", false
	}
	delete(s.users, sid)
	return name, true
}

// CreateRoom registers a new empty room. It reports false and mutates
// nothing when the name is already taken.
func (s *Store) CreateRoom(name string) bool {
	if _, exists := s.rooms[name]; exists {
		return false
	}
	s.rooms[name] = make(map[string]string)
	s.order = append(s.order, name)
	return true
}

// RoomExists reports whether a room with the given name is registered.
func (s *Store) RoomExists(name string) bool {
	_, ok := s.rooms[name]
	return ok
}

// ListRooms returns every room in creation order. Room order is part of the
// broadcast contract; member maps are copies and safe to hand off.
func (s *Store) ListRooms() []RoomEntry {
	entries := make([]RoomEntry, 0, len(s.order))
	for _, name := range s.order {
		entries = append(entries, RoomEntry{Name: name, Members: s.RoomMembers(name)})
	}
	return entries
}

// RoomMembers returns a copy of the sid -> display name map for one room.
// An unknown room yields an empty map.
func (s *Store) RoomMembers(name string) map[string]string {
	members := make(map[string]string, len(s.rooms[name]))
	for sid, displayName := range s.rooms[name] {
		members[sid] = displayName
	}
	return members
}

// AddMember inserts or refreshes sid in the room's member set and updates the
// reverse index. No-op when the room is absent; the Coordinator validates
// room existence before calling.
func (s *Store) AddMember(room, sid, name string) {
	members, ok := s.rooms[room]
	if !ok {
		return
	}
	members[sid] = name
	s.current[sid] = room
}

// RemoveMember deletes sid from the room's member set and reports the removed
// display name.
func (s *Store) RemoveMember(room, sid string) (string, bool) {
	members, ok := s.rooms[room]
	if !ok {
		return "", false
	}
	name, ok := members[sid]
	if !ok {
		return "", false
	}
	delete(members, sid)
	if s.current[sid] == room {
		delete(s.current, sid)
	}
	return name, true
}

// CurrentRoom reports the room sid occupies according to the reverse index.
func (s *Store) CurrentRoom(sid string) (string, bool) {
	room, ok := s.current[sid]
	return room, ok
}

// CurrentRoomsOf scans the forward maps for every room containing sid, in
// creation order. Under the single-room invariant at most one room matches,
// but the scan tolerates drift rather than trusting the reverse index.
func (s *Store) CurrentRoomsOf(sid string) []string {
	var names []string
	for _, name := range s.order {
		if _, ok := s.rooms[name][sid]; ok {
			names = append(names, name)
		}
	}
	return names
}
