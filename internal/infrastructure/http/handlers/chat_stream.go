package handlers

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/domain/chat"
	"github.com/fridgeraider/fridgeraider/internal/ports/inbound"
	"github.com/fridgeraider/fridgeraider/pkg/errors"
)

const (
	writeWait       = 10 * time.Second
	maxMessageBytes = 16 * 1024
)

// StreamFrame is one server message on the chat socket. Kind is "partial",
// "done" or "error".
type StreamFrame struct {
	Kind  string               `json:"kind"`
	Text  string               `json:"text,omitempty"`
	Links []chat.Citation      `json:"links,omitempty"`
	Error *errors.ErrorDetails `json:"error,omitempty"`
}

func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return allowAll || origin == "" || allowed[origin]
		},
	}
}

// ChatStream handles GET /api/v1/chat/stream. Each text message from the
// client is a ChatCommand; the reply streams back as frames ending in a
// single done frame.
func (h *APIHandlers) ChatStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageBytes)
	requestID := chimiddleware.GetReqID(r.Context())

	for {
		var cmd inbound.ChatCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("Chat socket closed unexpectedly", zap.Error(err))
			}
			return
		}

		if err := h.check(&cmd); err != nil {
			details := errors.ToErrorResponse(errors.Wrap(err, ""), requestID).Error
			if !h.send(conn, StreamFrame{Kind: "error", Error: &details}) {
				return
			}
			continue
		}

		for ev := range h.workspace.ChatStream(r.Context(), cmd) {
			if !h.send(conn, StreamFrame{Kind: string(ev.Kind), Text: ev.Text, Links: ev.Citations}) {
				return
			}
		}
	}
}

func (h *APIHandlers) send(conn *websocket.Conn, frame StreamFrame) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(frame); err != nil {
		h.logger.Debug("Failed to write chat frame", zap.Error(err))
		return false
	}
	return true
}
