package chat

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/kisanmitra/backend/internal/model/chat"
	chatService "github.com/kisanmitra/backend/internal/service/chat"
)

// WebSocketHandler answers widget messages over a live connection. Each
// inbound user message runs through the same reply resolution as the REST
// endpoint; the connection serializes turns, so one resolution is in flight
// at a time.
type WebSocketHandler struct {
	chatSvc  *chatService.Service
	resolver ReplyResolver
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the websocket chat handler.
func NewWebSocketHandler(chatSvc *chatService.Service, resolver ReplyResolver) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc:  chatSvc,
		resolver: resolver,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes registers the live chat route.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/chat/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string `json:"type"`
	Data struct {
		Text string `json:"text"`
	} `json:"data"`
}

type outgoingMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Data      struct {
		Text string `json:"text"`
	} `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] connection opened for session=%s", sessionID)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error for session=%s: %v", sessionID, err)
			}
			return
		}

		if inbound.Type != "user_message" || inbound.Data.Text == "" {
			h.writeMessage(conn, sessionID, "error", "expected a user_message with text")
			continue
		}

		userTurn := chat.Message{
			SessionID: sessionID,
			Role:      chat.RoleUser,
			Text:      inbound.Data.Text,
		}
		if err := h.chatSvc.AppendMessage(r.Context(), userTurn); err != nil {
			log.Printf("[ws] failed to store user turn: %v", err)
		}

		reply := h.resolver.Resolve(r.Context(), inbound.Data.Text)

		botTurn := chat.Message{
			SessionID: sessionID,
			Role:      chat.RoleBot,
			Text:      reply,
		}
		if err := h.chatSvc.AppendMessage(r.Context(), botTurn); err != nil {
			log.Printf("[ws] failed to store bot turn: %v", err)
		}

		if !h.writeMessage(conn, sessionID, "bot_message", reply) {
			return
		}
	}
}

func (h *WebSocketHandler) writeMessage(conn *websocket.Conn, sessionID, msgType, text string) bool {
	outgoing := outgoingMessage{
		Type:      msgType,
		SessionID: sessionID,
		Timestamp: time.Now().UnixMilli(),
	}
	outgoing.Data.Text = text

	if err := conn.WriteJSON(outgoing); err != nil {
		log.Printf("[ws] write error for session=%s: %v", sessionID, err)
		return false
	}
	return true
}
