package proto

import "encoding/json"

// Event names on the wire. Inbound names match what lobby clients send;
// outbound names are what they subscribe to.
const (
	InboundSetName    = "set name"
	InboundCreateRoom = "create room"
	InboundJoinGame   = "join game"
	InboundLeaveGame  = "leave game"
	InboundShowRooms  = "show rooms"

	OutboundConnect    = "connect"
	OutboundUserList   = "user list"
	OutboundRooms      = "rooms"
	OutboundDisconnect = "disconnect"
)

// Inbound is the envelope for events coming from the client. Data is a bare
// JSON string for the events that carry one (room or display name).
type Inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Outbound is the envelope for events sent to the client.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// ConnectData acknowledges a newly accepted connection.
type ConnectData struct {
	Data string `json:"data"`
}

// UserListData carries the full current membership of one room.
type UserListData struct {
	Users []UserPair `json:"users"`
}

// UserPair is one (sid, display name) pair, encoded as a two-element array:
// ["b2a1...", "alice"].
type UserPair [2]string

// RoomsData carries the room directory in creation order.
type RoomsData struct {
	Rooms []RoomPair `json:"rooms"`
}

// RoomPair is one (room name, member map) pair, encoded as a two-element
// array of mixed types: ["arena", {"b2a1...": "alice"}].
type RoomPair struct {
	Name    string
	Members map[string]string
}

func (p RoomPair) MarshalJSON() ([]byte, error) {
	members := p.Members
	if members == nil {
		members = map[string]string{}
	}
	return json.Marshal([2]any{p.Name, members})
}

func (p *RoomPair) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &p.Name); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &p.Members)
}
