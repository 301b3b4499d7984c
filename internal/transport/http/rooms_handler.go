package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RoomsHandler serves the read-only REST mirror of the room directory.
type RoomsHandler struct {
	hub *Hub
	log *zerolog.Logger
}

// NewRoomsHandler creates a new rooms handler instance.
func NewRoomsHandler(hub *Hub, logger *zerolog.Logger) *RoomsHandler {
	return &RoomsHandler{hub: hub, log: logger}
}

// List handles GET /api/rooms. It returns the same directory shape the
// "rooms" WebSocket event carries and never mutates membership.
func (h *RoomsHandler) List(c *gin.Context) {
	rooms := h.hub.Directory(c.Request.Context())
	if rooms == nil {
		h.log.Warn().Msg("directory snapshot timed out")
		c.JSON(stdhttp.StatusServiceUnavailable, gin.H{"error": "directory unavailable"})
		return
	}
	c.JSON(stdhttp.StatusOK, roomsData(rooms))
}
