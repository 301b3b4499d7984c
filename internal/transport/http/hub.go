package http

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mkorobka/lobby-server/internal/core"
	"github.com/mkorobka/lobby-server/internal/proto"
)

// session is one live WebSocket connection as seen by the hub.
type session struct {
	sid string
	out chan proto.Outbound
}

type inboundFrame struct {
	sid string
	msg proto.Inbound
}

// Hub owns the Coordinator and serializes every transport event through a
// single goroutine: connection lifecycle, inbound events, and directory
// queries all pass through Run's select loop, so core transitions never
// overlap.
type Hub struct {
	coord *core.Coordinator
	store *core.Store

	register   chan *session
	unregister chan *session
	inbound    chan inboundFrame
	directory  chan chan []core.RoomEntry

	sessions map[string]*session
	log      *zerolog.Logger
}

// NewHub builds a hub around the given coordinator and store.
func NewHub(coord *core.Coordinator, store *core.Store, logger *zerolog.Logger) *Hub {
	return &Hub{
		coord:      coord,
		store:      store,
		register:   make(chan *session),
		unregister: make(chan *session),
		inbound:    make(chan inboundFrame, 32),
		directory:  make(chan chan []core.RoomEntry),
		sessions:   make(map[string]*session),
		log:        logger,
	}
}

// Run processes transport events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case s := <-h.register:
			h.sessions[s.sid] = s
			h.dispatch(h.coord.Connect(s.sid))
		case s := <-h.unregister:
			if _, ok := h.sessions[s.sid]; !ok {
				continue
			}
			delete(h.sessions, s.sid)
			close(s.out)
			h.dispatch(h.coord.Disconnect(s.sid))
		case f := <-h.inbound:
			h.handle(f)
		case reply := <-h.directory:
			reply <- h.store.ListRooms()
		case <-ctx.Done():
			return
		}
	}
}

// Register announces a newly accepted connection to the hub.
func (h *Hub) Register(s *session) {
	h.register <- s
}

// Unregister removes a closed connection. Safe to call more than once.
func (h *Hub) Unregister(s *session) {
	h.unregister <- s
}

// Submit queues an inbound event for processing.
func (h *Hub) Submit(sid string, msg proto.Inbound) {
	h.inbound <- inboundFrame{sid: sid, msg: msg}
}

// Directory returns a consistent snapshot of the room directory.
func (h *Hub) Directory(ctx context.Context) []core.RoomEntry {
	reply := make(chan []core.RoomEntry, 1)
	select {
	case h.directory <- reply:
	case <-ctx.Done():
		return nil
	}
	select {
	case rooms := <-reply:
		return rooms
	case <-ctx.Done():
		return nil
	}
}

func (h *Hub) handle(f inboundFrame) {
	switch f.msg.Event {
	case proto.InboundSetName:
		name, ok := stringData(f.msg.Data)
		if !ok {
			h.log.Debug().Str("sid", f.sid).Msg("malformed set name ignored")
			return
		}
		h.dispatch(h.coord.SetName(f.sid, name))
	case proto.InboundCreateRoom:
		room, ok := stringData(f.msg.Data)
		if !ok {
			h.log.Debug().Str("sid", f.sid).Msg("malformed create room ignored")
			return
		}
		out, res := h.coord.CreateRoom(f.sid, room)
		if !res.OK() {
			h.log.Debug().Str("sid", f.sid).Str("room", room).Str("result", string(res)).Msg("create room rejected")
		}
		h.dispatch(out)
	case proto.InboundJoinGame:
		room, ok := stringData(f.msg.Data)
		if !ok {
			h.log.Debug().Str("sid", f.sid).Msg("malformed join game ignored")
			return
		}
		out, _ := h.coord.JoinGame(f.sid, room)
		h.dispatch(out)
	case proto.InboundLeaveGame:
		h.dispatch(h.coord.LeaveGame(f.sid))
	case proto.InboundShowRooms:
		h.dispatch(h.coord.ShowRooms(f.sid))
	default:
		h.log.Debug().Str("sid", f.sid).Str("event", f.msg.Event).Msg("unknown inbound event ignored")
	}
}

// dispatch forwards broadcast instructions to their recipients. Room fan-out
// resolves occupants from the store at dispatch time, which is the
// post-transition membership since transition and dispatch share a goroutine.
func (h *Hub) dispatch(broadcasts []core.Broadcast) {
	for _, b := range broadcasts {
		msg := outboundFromBroadcast(b)
		switch b.Target.Kind {
		case core.TargetConn:
			h.send(b.Target.SID, msg)
		case core.TargetRoom:
			for sid := range h.store.RoomMembers(b.Target.Room) {
				h.send(sid, msg)
			}
		case core.TargetAll:
			for sid := range h.sessions {
				h.send(sid, msg)
			}
		}
	}
}

func (h *Hub) send(sid string, msg proto.Outbound) {
	s, ok := h.sessions[sid]
	if !ok {
		return
	}
	select {
	case s.out <- msg:
	default:
		// Drop if slow consumer.
		h.log.Warn().Str("sid", sid).Str("event", msg.Event).Msg("dropping event for slow consumer")
	}
}

func stringData(data json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}
