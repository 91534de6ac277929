package realtime

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/adaptive-assistant/internal/logging"
	"github.com/zhouzirui/adaptive-assistant/internal/service/assistant"
	chatservice "github.com/zhouzirui/adaptive-assistant/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// Outbound frame types.
const (
	TypeConnected = "connected"
	TypeThinking  = "thinking"
	TypeMessage   = "message"
	TypePong      = "pong"
	TypeError     = "error"
)

// WebSocketHandler runs chat turns over a websocket. Each inbound message
// yields one complete reply frame; replies are not streamed.
type WebSocketHandler struct {
	chatSvc      *chatservice.Service
	assistantSvc *assistant.Service
	upgrader     websocket.Upgrader
	logger       *zap.Logger
}

// NewWebSocketHandler creates the websocket handler.
func NewWebSocketHandler(chatSvc *chatservice.Service, assistantSvc *assistant.Service, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc:      chatSvc,
		assistantSvc: assistantSvc,
		logger:       logging.OrNop(logger).Named("websocket"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket route.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

// InboundMessage is a client frame.
type InboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// OutgoingMessage is a server frame.
type OutgoingMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	logger := h.logger.With(zap.String("session", sessionID))
	logger.Info("connection opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go h.pingLoop(ctx, conn)

	h.send(conn, sessionID, TypeConnected, map[string]any{
		"profile":  session.Profile,
		"messages": len(session.Messages),
	})

	for {
		var msg InboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("read failed", zap.Error(err))
			}
			logger.Info("connection closed")
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		switch msg.Type {
		case "ping":
			h.send(conn, sessionID, TypePong, nil)
		case "message":
			h.handleTurn(ctx, conn, sessionID, msg.Text)
		default:
			h.sendError(conn, sessionID, "unsupported message type")
		}
	}
}

func (h *WebSocketHandler) handleTurn(ctx context.Context, conn *websocket.Conn, sessionID, text string) {
	if strings.TrimSpace(text) == "" {
		h.sendError(conn, sessionID, assistant.ErrEmptyMessage.Error())
		return
	}

	h.send(conn, sessionID, TypeThinking, nil)

	result, err := h.assistantSvc.HandleTurn(ctx, sessionID, text)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			h.logger.Error("turn failed", zap.String("session", sessionID), zap.Error(err))
		}
		h.sendError(conn, sessionID, err.Error())
		return
	}
	h.send(conn, sessionID, TypeMessage, result)
}

func (h *WebSocketHandler) send(conn *websocket.Conn, sessionID, msgType string, data any) {
	msg := OutgoingMessage{
		Type:      msgType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Warn("write failed", zap.String("type", msgType), zap.Error(err))
	}
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, sessionID, message string) {
	h.send(conn, sessionID, TypeError, map[string]string{"message": message})
}

// pingLoop keeps the connection alive. WriteControl is safe alongside WriteJSON.
func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
