package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jobnest/backend/internal/chat"
	"github.com/jobnest/backend/internal/utils"
	"github.com/sirupsen/logrus"
)

type WSHandler struct {
	hub      *chat.Hub
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *chat.Hub, log *logrus.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsClientMsg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) WriteJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteJSON(v)
}

func (w *wsConn) writeError(err error) {
	code := "INTERNAL"
	msg := "internal error"
	var ae *utils.AppError
	if errors.As(err, &ae) {
		code = string(ae.Code)
		msg = ae.Message
	}
	_ = w.WriteJSON(gin.H{"type": "error", "code": code, "message": msg})
}

// ConversationWS upgrades the request and attaches the caller to the
// conversation's room for the lifetime of the connection. Membership is
// checked inside Hub.Join; a non-participant is cut off before any
// message flows.
func (h *WSHandler) ConversationWS(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	conversationID := c.Param("conversation_id")
	if conversationID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "WSHandler.ConversationWS", "missing conversation_id", nil))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	client := chat.NewClient(userID, ctxString(c, "username"), ctxString(c, "avatar"), wc)

	ctx := c.Request.Context()
	if err := h.hub.Join(ctx, client, conversationID); err != nil {
		wc.writeError(err)
		return
	}
	defer h.hub.Leave(client)

	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, rerr := conn.ReadMessage()
		if rerr != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var msg wsClientMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = wc.WriteJSON(gin.H{"type": "error", "code": "INVALID_ARGUMENT", "message": "invalid json"})
			continue
		}

		switch msg.Type {
		case "message":
			if msg.Content == "" {
				_ = wc.WriteJSON(gin.H{"type": "error", "code": "INVALID_ARGUMENT", "message": "content is required"})
				continue
			}
			if err := h.hub.Send(ctx, client, msg.Content); err != nil {
				h.log.WithError(err).WithFields(logrus.Fields{
					"user_id":         userID,
					"conversation_id": conversationID,
				}).Warn("ws: send failed")
				wc.writeError(err)
			}

		case "leave":
			return

		default:
			_ = wc.WriteJSON(gin.H{"type": "error", "code": "INVALID_ARGUMENT", "message": "unknown message type"})
		}
	}
}
