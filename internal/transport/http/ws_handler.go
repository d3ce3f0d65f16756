package http

import (
	"context"
	"errors"
	"io"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomlink/roomlink-server/internal/core"
	"github.com/roomlink/roomlink-server/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to the connection
// manager. Room and client identity come from the URL path; the client
// payload is never trusted for either.
type WSHandler struct {
	manager *core.Manager
	log     *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(manager *core.Manager, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{manager: manager, log: logger}
}

// Handle serves GET /ws/:room_id/:client_id.
func (h *WSHandler) Handle(c *gin.Context) {
	roomID := c.Param("room_id")
	clientID := c.Param("client_id")

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	err = h.manager.Serve(c.Request.Context(), roomID, clientID, &wsTransport{conn: conn})
	if errors.Is(err, core.ErrDuplicateClient) {
		h.log.Warn().Str("room", roomID).Str("client", clientID).Msg("join rejected: duplicate client id")
		conn.Close(websocket.StatusPolicyViolation, core.ErrCodeDuplicateClient)
		return
	}

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s > 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("room", roomID).Str("client", clientID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// wsTransport adapts a websocket connection to the core transport
// collaborator contract.
type wsTransport struct {
	conn *websocket.Conn
}

func (t *wsTransport) Receive(ctx context.Context) (*proto.Envelope, error) {
	var env proto.Envelope
	if err := wsjson.Read(ctx, t.conn, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (t *wsTransport) Send(ctx context.Context, v any) error {
	return wsjson.Write(ctx, t.conn, v)
}

func (t *wsTransport) Close() error {
	return t.conn.Close(websocket.StatusNormalClosure, "closing")
}
