package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomlink/roomlink-server/internal/core"
)

// PresenceHandlers provides HTTP handlers for room presence queries.
type PresenceHandlers struct {
	registry *core.Registry
	log      *zerolog.Logger
}

// NewPresenceHandlers creates a new presence handlers instance.
func NewPresenceHandlers(registry *core.Registry, logger *zerolog.Logger) *PresenceHandlers {
	return &PresenceHandlers{
		registry: registry,
		log:      logger,
	}
}

// PresenceResponse represents the room presence response body.
type PresenceResponse struct {
	Users []string `json:"users"`
	Total int      `json:"total"`
}

// RoomUsers lists the client ids currently in a room. An unknown room is
// an empty list, never an error.
// GET /room/:room_id/users
func (h *PresenceHandlers) RoomUsers(c *gin.Context) {
	roomID := c.Param("room_id")
	users := h.registry.ListSessions(roomID)

	h.log.Debug().Str("room", roomID).Int("total", len(users)).Msg("presence queried")
	c.JSON(http.StatusOK, PresenceResponse{Users: users, Total: len(users)})
}
