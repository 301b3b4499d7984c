package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mkorobka/lobby-server/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to the hub.
type WSHandler struct {
	hub *Hub
	log *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *Hub, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{hub: hub, log: logger}
}

// Handle accepts the WebSocket upgrade on GET /ws.
func (h *WSHandler) Handle(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	s := &session{
		sid: uuid.NewString(),
		out: make(chan proto.Outbound, 16),
	}
	h.hub.Register(s)
	defer h.hub.Unregister(s)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, s)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, s)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		if cs := websocket.CloseStatus(err); cs != -1 {
			status = cs
		}
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			status = websocket.StatusInternalError
			reason = err.Error()
			h.log.Warn().Err(err).Str("sid", s.sid).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// readLoop receives envelopes from the client and hands them to the hub. A
// frame that fails to decode is logged and skipped, never fatal; only
// connection-level errors end the loop.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, s *session) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		var inbound proto.Inbound
		if err := json.Unmarshal(data, &inbound); err != nil {
			h.log.Debug().Err(err).Str("sid", s.sid).Msg("malformed inbound frame ignored")
			continue
		}
		h.hub.Submit(s.sid, inbound)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, s *session) error {
	for {
		select {
		case msg, ok := <-s.out:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, msg); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
