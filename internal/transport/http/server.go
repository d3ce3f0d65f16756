package http

import (
	stdhttp "net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomlink/roomlink-server/internal/config"
	"github.com/roomlink/roomlink-server/internal/core"
	"github.com/roomlink/roomlink-server/internal/storage"
)

// NewServer builds the HTTP server: WebSocket relay, file uploads,
// presence, health and static mounts.
func NewServer(manager *core.Manager, st storage.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(LoggerMiddleware(logger), gin.Recovery())

	r.GET("/health", healthHandler)

	ws := NewWSHandler(manager, logger)
	r.GET("/ws/:room_id/:client_id", ws.Handle)

	upload := NewUploadHandlers(st, logger)
	r.POST("/upload/:room_id/:client_id", upload.Upload)

	presence := NewPresenceHandlers(manager.Registry(), logger)
	r.GET("/room/:room_id/users", presence.RoomUsers)

	r.Static("/uploads", st.Dir())
	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		r.NoRoute(gin.WrapH(stdhttp.FileServer(stdhttp.Dir(cfg.StaticDir))))
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
