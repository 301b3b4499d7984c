package http

import (
	"github.com/mkorobka/lobby-server/internal/core"
	"github.com/mkorobka/lobby-server/internal/proto"
)

// outboundFromBroadcast converts a core broadcast instruction to its wire
// shape. Target resolution happens in the hub; only the payload matters here.
func outboundFromBroadcast(b core.Broadcast) proto.Outbound {
	switch b.Event {
	case core.EventConnected:
		return proto.Outbound{
			Event: proto.OutboundConnect,
			Data:  proto.ConnectData{Data: b.Data},
		}
	case core.EventUserList:
		users := make([]proto.UserPair, 0, len(b.Users))
		for _, u := range b.Users {
			users = append(users, proto.UserPair{u.SID, u.Name})
		}
		return proto.Outbound{
			Event: proto.OutboundUserList,
			Data:  proto.UserListData{Users: users},
		}
	case core.EventRoomDirectory:
		return proto.Outbound{
			Event: proto.OutboundRooms,
			Data:  roomsData(b.Rooms),
		}
	case core.EventDisconnected:
		return proto.Outbound{
			Event: proto.OutboundDisconnect,
			Data:  b.Data,
		}
	default:
		return proto.Outbound{Event: proto.OutboundConnect}
	}
}

func roomsData(entries []core.RoomEntry) proto.RoomsData {
	rooms := make([]proto.RoomPair, 0, len(entries))
	for _, entry := range entries {
		rooms = append(rooms, proto.RoomPair{Name: entry.Name, Members: entry.Members})
	}
	return proto.RoomsData{Rooms: rooms}
}
