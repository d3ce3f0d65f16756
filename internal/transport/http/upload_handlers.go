package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomlink/roomlink-server/internal/core"
	"github.com/roomlink/roomlink-server/internal/storage"
)

// UploadHandlers provides HTTP handlers for file uploads. Uploads sit
// outside the real-time path: the uploading client announces the returned
// file id to its room with a file_meta envelope afterwards.
type UploadHandlers struct {
	store storage.Store
	log   *zerolog.Logger
}

// NewUploadHandlers creates a new upload handlers instance.
func NewUploadHandlers(st storage.Store, logger *zerolog.Logger) *UploadHandlers {
	return &UploadHandlers{
		store: st,
		log:   logger,
	}
}

// UploadResponse represents the upload response body.
type UploadResponse struct {
	FileID string `json:"file_id"`
}

// Upload handles file uploads.
// POST /upload/:room_id/:client_id
func (h *UploadHandlers) Upload(c *gin.Context) {
	roomID := c.Param("room_id")
	clientID := c.Param("client_id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.log.Debug().Err(err).Msg("invalid upload request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file field is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.log.Error().Err(err).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	defer f.Close()

	id, size, err := h.store.Save(c.Request.Context(), fileHeader.Filename, f)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			h.log.Debug().Str("room", roomID).Str("client", clientID).Str("file", fileHeader.Filename).Msg("upload rejected: too large")
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrCodeCapacity})
			return
		}
		h.log.Error().Err(err).Str("file", fileHeader.Filename).Msg("failed to store upload")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().
		Str("room", roomID).
		Str("client", clientID).
		Str("file_id", id).
		Int64("size", size).
		Msg("file uploaded")
	c.JSON(http.StatusOK, UploadResponse{FileID: id})
}
