package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kisanmitra/backend/internal/model/chat"
	chatService "github.com/kisanmitra/backend/internal/service/chat"
	"github.com/kisanmitra/backend/pkg/utils"
)

// ReplyResolver produces a bot reply for one user turn. It is infallible by
// contract; failures surface as reply text.
type ReplyResolver interface {
	Resolve(ctx context.Context, userText string) string
}

// Handler exposes the chat widget's REST surface.
type Handler struct {
	chatSvc  *chatService.Service
	resolver ReplyResolver
}

// New creates the chat handler.
func New(chatSvc *chatService.Service, resolver ReplyResolver) *Handler {
	return &Handler{chatSvc: chatSvc, resolver: resolver}
}

// RegisterRoutes registers chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/chat", h.handleChat)
	r.Get("/session/{sessionID}/transcript", h.handleTranscript)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.CreateSession(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Message   string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}
	if _, err := h.chatSvc.GetSession(r.Context(), payload.SessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	userTurn := chat.Message{
		SessionID: payload.SessionID,
		Role:      chat.RoleUser,
		Text:      payload.Message,
	}
	if err := h.chatSvc.AppendMessage(r.Context(), userTurn); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Resolution cannot fail; the bot turn always carries a non-empty reply.
	reply := h.resolver.Resolve(r.Context(), payload.Message)

	botTurn := chat.Message{
		SessionID: payload.SessionID,
		Role:      chat.RoleBot,
		Text:      reply,
	}
	if err := h.chatSvc.AppendMessage(r.Context(), botTurn); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	transcript, err := h.chatSvc.LoadTranscript(r.Context(), sessionID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, chatService.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"messages": transcript})
}
